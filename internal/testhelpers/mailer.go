package testhelpers

import "sync"

// SentMail is one message captured by RecordingMailer
type SentMail struct {
	Kind    string
	To      string
	Name    string
	LinkURL string
}

// RecordingMailer captures outgoing mail instead of sending it
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []SentMail

	// Err, when set, is returned by every send
	Err error
}

func (m *RecordingMailer) SendVerificationEmail(toEmail, toName, verificationURL string) error {
	return m.record("verification", toEmail, toName, verificationURL)
}

func (m *RecordingMailer) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	return m.record("password-reset", toEmail, toName, resetURL)
}

func (m *RecordingMailer) record(kind, to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{Kind: kind, To: to, Name: name, LinkURL: link})
	return nil
}

// Last returns the most recent message, or the zero value when nothing was sent
func (m *RecordingMailer) Last() SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentMail{}
	}
	return m.Sent[len(m.Sent)-1]
}
