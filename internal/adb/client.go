package adb

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/five82/droidtrace/internal/live"
)

// Content provider URIs queried during extraction.
const (
	CallLogURI = "content://call_log/calls"
	SMSURI     = "content://sms"
)

// sinceLayout is the logcat -T format.
const sinceLayout = "01-02 15:04:05.000"

// Device is one entry from `adb devices -l`.
type Device struct {
	Serial  string
	State   string
	Model   string
	Product string
}

// Ready reports whether the device accepts commands.
func (d Device) Ready() bool { return d.State == "device" }

// Client issues adb commands, optionally pinned to one device serial.
type Client struct {
	Path   string
	Serial string
	Runner Runner
}

var _ live.Launcher = (*Client)(nil)

// NewClient returns a client using the adb binary at path.
func NewClient(path, serial string) *Client {
	if strings.TrimSpace(path) == "" {
		path = "adb"
	}
	return &Client{Path: path, Serial: strings.TrimSpace(serial), Runner: ExecRunner{}}
}

func (c *Client) args(extra ...string) []string {
	if c.Serial == "" {
		return extra
	}
	return append([]string{"-s", c.Serial}, extra...)
}

func (c *Client) runner() Runner {
	if c.Runner == nil {
		return ExecRunner{}
	}
	return c.Runner
}

// Devices lists attached devices.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	if c == nil {
		return nil, fmt.Errorf("adb client is nil")
	}
	out, err := c.runner().Output(ctx, c.Path, "devices", "-l")
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return ParseDevices(out), nil
}

// ParseDevices parses `adb devices -l` output.
func ParseDevices(out []byte) []Device {
	var devices []Device
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := Device{Serial: fields[0], State: fields[1]}
		for _, f := range fields[2:] {
			key, value, ok := strings.Cut(f, ":")
			if !ok {
				continue
			}
			switch key {
			case "model":
				d.Model = value
			case "product":
				d.Product = value
			}
		}
		devices = append(devices, d)
	}
	return devices
}

// DumpLogcat returns the buffered log since the given time.
func (c *Client) DumpLogcat(ctx context.Context, since time.Time) ([]byte, error) {
	out, err := c.runner().Output(ctx, c.Path, c.args("logcat", "-d", "-v", "time", "-T", since.Format(sinceLayout))...)
	if err != nil {
		return nil, fmt.Errorf("dump logcat: %w", err)
	}
	return out, nil
}

// QueryContent runs `content query` against a provider URI.
func (c *Client) QueryContent(ctx context.Context, uri string) ([]byte, error) {
	out, err := c.runner().Output(ctx, c.Path, c.args("shell", "content", "query", "--uri", uri)...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", uri, err)
	}
	return out, nil
}

// Launch starts `adb logcat -v time` for live monitoring.
func (c *Client) Launch(ctx context.Context) (live.Process, error) {
	proc, err := c.runner().Stream(ctx, c.Path, c.args("logcat", "-v", "time")...)
	if err != nil {
		return nil, fmt.Errorf("start logcat: %w", err)
	}
	return proc, nil
}
