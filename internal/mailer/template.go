package mailer

import (
	"strings"

	"github.com/nayan-ray/bookingd/internal/model"
)

// RenderConfirmation substitutes the {name} {service} {date} {time}
// placeholders with the record's fields. strings.Replacer walks the
// template once, so a substituted value containing placeholder syntax is
// never re-expanded and replacement order cannot matter.
func RenderConfirmation(template string, rec *model.AppointmentRecord) string {
	r := strings.NewReplacer(
		"{name}", rec.Name,
		"{service}", rec.Service,
		"{date}", rec.Date,
		"{time}", rec.Time,
	)
	return r.Replace(template)
}
