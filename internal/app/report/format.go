package report

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/qiaoxuchen/auto-report-agent/internal/domain"
)

// Formatter renders one data point as a prompt entry. Every entry must carry
// the point's timestamp so the summarizer can order events.
type Formatter func(p domain.DataPoint) string

const genericPayloadLimit = 200

// Registry maps source tags to formatters. Unregistered tags fall back to a
// generic formatter that stringifies and truncates the payload, so new
// producers work before anyone writes a formatter for them.
type Registry struct {
	mu    sync.RWMutex
	byTag map[string]Formatter
}

func NewRegistry() *Registry {
	r := &Registry{byTag: make(map[string]Formatter)}
	r.Register("file", formatFileEvent)
	r.Register("document", formatDocument)
	r.Register("screen", formatScreen)
	r.Register("calendar", formatCalendar)
	r.Register("chat", formatChat)
	return r
}

func (r *Registry) Register(tag string, fn Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTag[tag] = fn
}

func (r *Registry) Format(p domain.DataPoint) string {
	r.mu.RLock()
	fn := r.byTag[p.Source]
	r.mu.RUnlock()
	if fn == nil {
		return formatGeneric(p)
	}
	return fn(p)
}

// payloadFields flattens any payload into a string map via its JSON form, so
// formatters handle typed structs and raw maps the same way.
func payloadFields(payload any) map[string]any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	return fields
}

func fieldString(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%v", v)
}

func stamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func formatFileEvent(p domain.DataPoint) string {
	f := payloadFields(p.Payload)
	if f == nil {
		return formatGeneric(p)
	}
	return fmt.Sprintf("[file change - %s]\n    event: %s\n    path: %s",
		stamp(p.Timestamp), fieldString(f, "event_type"), fieldString(f, "src_path"))
}

func formatDocument(p domain.DataPoint) string {
	f := payloadFields(p.Payload)
	if f == nil {
		return formatGeneric(p)
	}
	return fmt.Sprintf("[document - %s]\n    file: %s\n    last modified: %s\n    excerpt: %s",
		stamp(p.Timestamp), fieldString(f, "filename"),
		fieldString(f, "last_modified"), fieldString(f, "content_snippet"))
}

func formatScreen(p domain.DataPoint) string {
	f := payloadFields(p.Payload)
	if f == nil {
		return formatGeneric(p)
	}
	return fmt.Sprintf("[screen capture - %s]\n    file: %s\n    extracted text: %s",
		stamp(p.Timestamp), fieldString(f, "filename"), fieldString(f, "extracted_text_snippet"))
}

func formatCalendar(p domain.DataPoint) string {
	f := payloadFields(p.Payload)
	if f == nil {
		return formatGeneric(p)
	}
	return fmt.Sprintf("[calendar - %s]\n    summary: %s\n    from %s to %s",
		stamp(p.Timestamp), fieldString(f, "summary"),
		fieldString(f, "start_time"), fieldString(f, "end_time"))
}

func formatChat(p domain.DataPoint) string {
	f := payloadFields(p.Payload)
	if f == nil {
		return formatGeneric(p)
	}
	return fmt.Sprintf("[chat message - %s]\n    group: %s\n    content: %s",
		stamp(p.Timestamp), fieldString(f, "chat_name"), fieldString(f, "content"))
}

func formatGeneric(p domain.DataPoint) string {
	text := fmt.Sprintf("%v", p.Payload)
	if len(text) > genericPayloadLimit {
		text = text[:genericPayloadLimit] + "..."
	}
	return fmt.Sprintf("[%s - %s]\n    %s", p.Source, stamp(p.Timestamp), text)
}
