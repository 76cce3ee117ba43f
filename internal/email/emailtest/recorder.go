// Package emailtest provee un email.Sender en memoria para tests.
package emailtest

import (
	"context"
	"sync"
)

// Message es un envío capturado por Recorder.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Recorder guarda cada Send. FailFor hace fallar los envíos a ciertas
// direcciones; Err, si no es nil, hace fallar todos.
type Recorder struct {
	mu       sync.Mutex
	messages []Message

	Err     error
	FailFor map[string]error
}

func (r *Recorder) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.FailFor[to]; ok {
		return err
	}
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, Message{To: to, Subject: subject, HTML: htmlBody, Text: textBody})
	return nil
}

// Messages devuelve una copia de lo enviado.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last devuelve el último mensaje; ok=false si no hubo envíos.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}
