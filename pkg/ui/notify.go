package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	cmd := exec.Command("notify-send", title, message)
	return cmd.Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`, message, title)
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}

// WindowsNotificationSender sends notifications on Windows using PowerShell
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
		$xml = @"
<toast>
	<visual>
		<binding template="ToastText02">
			<text id="1">%s</text>
			<text id="2">%s</text>
		</binding>
	</visual>
</toast>
"@
		$doc = [Windows.Data.Xml.Dom.XmlDocument]::new()
		$doc.LoadXml($xml)
		$toast = [Windows.UI.Notifications.ToastNotification]::new($doc)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("perfectscan").Show($toast)
	`, title, message)

	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	return cmd.Run()
}

// Notifier announces discoveries outside the normal output stream: a
// terminal bell, and optionally a desktop notification. Both are best
// effort.
type Notifier struct {
	bell    bool
	desktop bool
	sender  NotificationSender
}

// NewNotifier creates a Notifier. The desktop sender is chosen by platform;
// on unsupported platforms desktop notifications are silently skipped.
func NewNotifier(bell, desktop bool) *Notifier {
	var sender NotificationSender

	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	case "windows":
		sender = &WindowsNotificationSender{}
	default:
		sender = nil
	}

	return &Notifier{bell: bell, desktop: desktop, sender: sender}
}

// AnnounceDiscovery rings the bell and sends a desktop notification for a
// newly found perfect number.
func (n *Notifier) AnnounceDiscovery(ordinal int, value uint32) {
	if n.bell {
		fmt.Print("\a")
	}
	n.notify("Perfect number found", fmt.Sprintf("#%d: %d", ordinal, value))
}

// AnnounceCompletion notifies that the whole candidate space was scanned.
func (n *Notifier) AnnounceCompletion(found int) {
	n.notify("Search complete", fmt.Sprintf("%d perfect numbers below 2^32", found))
}

func (n *Notifier) notify(title, message string) {
	if !n.desktop || n.sender == nil {
		return
	}
	// Best effort.
	_ = n.sender.Send(title, message)
}
