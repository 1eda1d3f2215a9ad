package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

type FunctionOutput struct {
	ID          int
	URL         string
	Status      string
	Message     string
	StartTime   time.Time
	LastUpdated time.Time
	Error       error
}

type ErrorReport struct {
	FunctionName string
	Error        error
	Time         time.Time
}

// Manager tracks the outcome of each link in a run. Links are processed one
// at a time, so status lines are printed as soon as a link settles.
type Manager struct {
	out     io.Writer
	outputs []*FunctionOutput
	errors  []ErrorReport
}

func NewManager(out io.Writer) *Manager {
	return &Manager{out: out}
}

func (m *Manager) RegisterFunction(url string) int {
	m.outputs = append(m.outputs, &FunctionOutput{
		ID:          len(m.outputs) + 1,
		URL:         url,
		Status:      "pending",
		StartTime:   time.Now(),
		LastUpdated: time.Now(),
	})
	return len(m.outputs)
}

func (m *Manager) get(id int) *FunctionOutput {
	if id < 1 || id > len(m.outputs) {
		return nil
	}
	return m.outputs[id-1]
}

func (m *Manager) SetMessage(id int, message string) {
	if info := m.get(id); info != nil {
		info.Message = message
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) GetStatus(id int) string {
	if info := m.get(id); info != nil {
		return info.Status
	}
	return "unknown"
}

func (m *Manager) Complete(id int, message string) {
	info := m.get(id)
	if info == nil {
		return
	}
	if message == "" {
		message = fmt.Sprintf("Completed %s", info.URL)
	}
	info.Message = message
	info.Status = "success"
	info.LastUpdated = time.Now()
	m.printLine(info)
}

func (m *Manager) ReportError(id int, err error) {
	info := m.get(id)
	if info == nil {
		return
	}
	info.Status = "error"
	info.Error = err
	info.Message = fmt.Sprintf("Failed %s", info.URL)
	info.LastUpdated = time.Now()
	m.errors = append(m.errors, ErrorReport{
		FunctionName: info.URL,
		Error:        err,
		Time:         time.Now(),
	})
	m.printLine(info)
}

func (m *Manager) Failures() int {
	return len(m.errors)
}

func (m *Manager) GetStatusIndicator(status string) string {
	switch status {
	case "success", "pass":
		return successStyle.Render(StyleSymbols["pass"])
	case "error", "fail":
		return errorStyle.Render(StyleSymbols["fail"])
	case "warning":
		return warningStyle.Render(StyleSymbols["warning"])
	case "pending":
		return pendingStyle.Render(StyleSymbols["pending"])
	default:
		return infoStyle.Render(StyleSymbols["bullet"])
	}
}

func (m *Manager) printLine(info *FunctionOutput) {
	elapsed := info.LastUpdated.Sub(info.StartTime).Round(time.Second)
	var styledMessage string
	switch info.Status {
	case "success":
		styledMessage = FSuccess(info.Message)
	case "error":
		styledMessage = FError(info.Message)
	default:
		styledMessage = FPending(info.Message)
	}
	fmt.Fprintf(m.out, "%s%s %s %s\n", strings.Repeat(" ", 2), m.GetStatusIndicator(info.Status), debugStyle.Render(elapsed.String()), styledMessage)
}

func (m *Manager) displayErrors() {
	if len(m.errors) == 0 {
		return
	}
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, strings.Repeat(" ", 2)+errorStyle.Bold(true).Render("Errors:"))
	for i, err := range m.errors {
		fmt.Fprintf(m.out, "%s%s %s %s\n",
			strings.Repeat(" ", 2+2),
			errorStyle.Render(fmt.Sprintf("%d.", i+1)),
			debugStyle.Render(fmt.Sprintf("[%s]", err.Time.Format("15:04:05"))),
			errorStyle.Render(fmt.Sprintf("Link: %s", err.FunctionName)))
		fmt.Fprintf(m.out, "%s%s\n", strings.Repeat(" ", 2+4), errorStyle.Render(fmt.Sprintf("Error: %v", err.Error)))
	}
}

// ShowSummary is only printed for runs with more than one link.
func (m *Manager) ShowSummary() {
	if len(m.outputs) < 2 {
		return
	}
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, strings.Repeat(" ", 2)+FHeader("Summary"))
	var success int
	for _, info := range m.outputs {
		if info.Status == "success" {
			success++
		}
	}
	fmt.Fprintln(m.out, strings.Repeat(" ", 2)+FSuccess2(fmt.Sprintf("Completed %d of %d", success, len(m.outputs))))
	if failures := len(m.errors); failures > 0 {
		fmt.Fprintln(m.out, strings.Repeat(" ", 2)+FError(fmt.Sprintf("Failed %d of %d", failures, len(m.outputs))))
	}
	m.displayErrors()
	fmt.Fprintln(m.out)
}
