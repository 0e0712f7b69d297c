package app

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/skdb/formkit/internal/form"
	"github.com/skdb/formkit/internal/mail"
	"github.com/skdb/formkit/internal/render"
	"github.com/skdb/formkit/internal/web"
)

// contactsForm describes the contacts table's editable fields. A real
// deployment builds this from its form validator; the shape is what the
// batch executor consumes.
var contactsForm = form.Result{
	RecordName: "contacts",
	Fields: []form.Field{
		{Name: "name", Tag: form.TagString},
		{Name: "email", Tag: form.TagString},
		{Name: "phone", Tag: form.TagString},
	},
}

// RegisterActions wires the controller actions into the front controller.
// mailer may be nil when outgoing mail is disabled; the invite action is
// then not registered.
func RegisterActions(s *web.Server, mailer *mail.Mailer) {
	s.HandleAction("", func(rsp *web.Responder, r *http.Request) {
		rsp.Render("home", nil, "")
	})

	s.HandleAction("error/404", func(rsp *web.Responder, r *http.Request) {
		rsp.Render("error/404", &render.Options{Title: "Not Found"}, "")
	})

	s.HandleAction("contacts/save", saveContacts)

	if mailer != nil {
		s.HandleAction("contacts/invite", inviteContact(mailer))
	}
}

// saveContacts applies a create/edit/delete batch to the contacts table.
// The owner column is fixed server-side so a client cannot write rows for
// someone else.
func saveContacts(rsp *web.Responder, r *http.Request) {
	if r.Method != http.MethodPost {
		rsp.Error("method not allowed")
		return
	}

	user := rsp.User()
	if user == nil {
		rsp.Error("not logged in")
		return
	}

	rows, err := web.ParseBatch(r, contactsForm.RecordName)
	if err != nil {
		rsp.Error("invalid payload")
		return
	}

	fix := form.Overrides{"owner": strconv.Itoa(user.ID)}
	if rsp.DoCED("contacts", contactsForm, rows, fix) {
		rsp.Success()
	}
}

var inviteSubject = mail.Subject{
	"en": "You have been invited",
	"de": "Sie wurden eingeladen",
}

// inviteContact mails an invitation in the recipient's language.
func inviteContact(mailer *mail.Mailer) web.Action {
	return func(rsp *web.Responder, r *http.Request) {
		if r.Method != http.MethodPost {
			rsp.Error("method not allowed")
			return
		}
		if rsp.User() == nil {
			rsp.Error("not logged in")
			return
		}

		var req struct {
			Email    string `json:"email"`
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			rsp.Error("invalid payload")
			return
		}

		if err := mailer.Send(rsp.Context(), req.Email, inviteSubject, "mail/invite", req.Language, nil, ""); err != nil {
			rsp.Error("could not send invitation")
			return
		}
		rsp.Success()
	}
}
