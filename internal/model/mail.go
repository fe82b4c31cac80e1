package model

import "context"

// Mailer delivers outbound mail. The orchestrator only produces message
// bodies; handlers own dispatch.
type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}
