package patterns

// LogTypes are the categorization buckets. Order decides first-match wins.
var LogTypes = New("log type", []Def{
	{"Application", `ActivityManager|PackageManager|ApplicationContext`, "Application lifecycle and package events", "blue"},
	{"System", `SystemServer|System\.err|SystemClock|SystemProperties`, "Core system services and properties", "green"},
	{"Crash", `FATAL|Exception|ANR|crash|force close|stacktrace`, "Crashes, exceptions and ANRs", "red"},
	{"GC", `dalvikvm.*GC|art.*GC|GC_|collector`, "Garbage collection activity", "purple"},
	{"Network", `ConnectivityManager|NetworkInfo|WifiManager|HttpURLConnection|socket|wifi|TCP|UDP|DNS`, "Connectivity and network traffic", "cyan"},
	{"Broadcast", `BroadcastReceiver|sendBroadcast|onReceive|Intent.*broadcast`, "Broadcast intents and receivers", "yellow"},
	{"Service", `Service|startService|stopService|bindService|onBind`, "Service start, stop and binding", "orange"},
	{"Device", `PowerManager|BatteryManager|sensor|hardware|camera|location|bluetooth|telephony`, "Hardware and device state", "magenta"},
})

// Severities classify a line by priority marker.
var Severities = New("severity", []Def{
	{Name: "Error", Pattern: `E/|ERROR|Exception|FATAL`},
	{Name: "Warning", Pattern: `W/|WARN|WARNING`},
	{Name: "Info", Pattern: `I/|INFO`},
	{Name: "Debug", Pattern: `D/|DEBUG`},
	{Name: "Verbose", Pattern: `V/|VERBOSE`},
})

// Subtypes are the fine-grained filters offered alongside severity.
var Subtypes = New("subtype", []Def{
	{Name: "Activity", Pattern: `Activity|startActivity`},
	{Name: "Fragment", Pattern: `Fragment`},
	{Name: "View", Pattern: `View|Inflate`},
	{Name: "Lifecycle", Pattern: `onCreate|onStart|onResume|onPause|onStop|onDestroy`},
	{Name: "Boot", Pattern: `boot|start up|startup|starting`},
	{Name: "Memory", Pattern: `memory|heap|ram`},
	{Name: "CPU", Pattern: `cpu|processor`},
	{Name: "Battery", Pattern: `battery|power`},
	{Name: "NullPointer", Pattern: `NullPointerException`},
	{Name: "OutOfMemory", Pattern: `OutOfMemoryError`},
	{Name: "IllegalState", Pattern: `IllegalStateException`},
	{Name: "ANR", Pattern: `ANR|Not Responding`},
	{Name: "WiFi", Pattern: `wifi|wlan`},
	{Name: "Mobile", Pattern: `mobile|cellular|data connection`},
	{Name: "HTTP", Pattern: `http|https|URL`},
	{Name: "Socket", Pattern: `socket|tcp|udp`},
	{Name: "Dalvik GC", Pattern: `dalvikvm.*GC`},
	{Name: "ART GC", Pattern: `art.*GC`},
	{Name: "Explicit GC", Pattern: `Explicit GC`},
	{Name: "Concurrent GC", Pattern: `Concurrent GC`},
	{Name: "System", Pattern: `android\.intent\.action|system broadcast`},
	{Name: "App", Pattern: `com\.`},
	{Name: "Sticky", Pattern: `sticky|registerReceiver`},
	{Name: "Ordered", Pattern: `ordered broadcast`},
	{Name: "Start", Pattern: `startService`},
	{Name: "Stop", Pattern: `stopService`},
	{Name: "Bind", Pattern: `bindService|onBind`},
	{Name: "Unbind", Pattern: `unbindService|onUnbind`},
	{Name: "Power", Pattern: `power|PowerManager|wake|sleep`},
	{Name: "Sensor", Pattern: `sensor|Sensor`},
	{Name: "Camera", Pattern: `camera|Camera`},
	{Name: "Location", Pattern: `location|LocationManager|GPS`},
})
