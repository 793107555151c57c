/* Copyright 2025 Medtrack Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package alerts

import (
	"strings"

	"github.com/gregdel/pushover"
	"github.com/medtrack/medtrack/pkg/cli/database"
	"github.com/medtrack/medtrack/pkg/cli/log"
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// Notifier delivers an alert to the user
type Notifier interface {
	Notify(a database.Alert) error
}

// Console prints alerts to the terminal
type Console struct{}

// Notify prints the alert
func (Console) Notify(a database.Alert) error {
	log.Alertf(a.Title, a.Body)

	return nil
}

// Pushover pushes alerts to the devices of a Pushover user
type Pushover struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
}

// NewPushover returns a notifier sending alerts with the given application token to the user
func NewPushover(token, userKey string) *Pushover {
	return &Pushover{
		app:       pushover.New(token),
		recipient: pushover.NewRecipient(userKey),
	}
}

// Notify sends the alert as a Pushover message
func (p *Pushover) Notify(a database.Alert) error {
	msg := pushover.NewMessageWithTitle(a.Body, a.Title)

	if _, err := p.app.SendMessage(msg, p.recipient); err != nil {
		return errors.Wrapf(err, "sending alert %s through pushover", a.Handle)
	}

	return nil
}

// EmailDialer sends email messages
type EmailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email mails alerts to a single address
type Email struct {
	dialer EmailDialer
	from   string
	to     string
}

// NewEmail returns a notifier mailing alerts through the given SMTP server
func NewEmail(host string, port int, username, password, from, to string) *Email {
	return &Email{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		to:     to,
	}
}

// Notify mails the alert as a plain text message
func (e *Email) Notify(a database.Alert) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.to)
	m.SetHeader("Subject", a.Title)
	m.SetBody("text/plain", a.Body)

	if err := e.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "mailing alert %s", a.Handle)
	}

	return nil
}

// Fanout delivers each alert through every notifier. An alert reached the
// user once any notifier succeeds, so it fails only if all of them fail.
// Failures of the others are logged and not retried.
type Fanout []Notifier

// Notify sends the alert through each notifier
func (f Fanout) Notify(a database.Alert) error {
	var failed []string
	for _, n := range f {
		if err := n.Notify(a); err != nil {
			failed = append(failed, err.Error())
		}
	}

	if len(failed) == 0 {
		return nil
	}
	if len(failed) < len(f) {
		log.Warnf("partially delivered alert %s: %s\n", a.Handle, strings.Join(failed, "; "))
		return nil
	}

	return errors.Errorf("delivering alert %s: %s", a.Handle, strings.Join(failed, "; "))
}
