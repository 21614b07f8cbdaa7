// Package redact masks contact details for non-privileged feed viewers.
package redact

import "strings"

const hidden = "Hidden"

// MaskEmail keeps the first character of the local part (and the last one when
// the local part is longer than two characters) and the full domain. Anything
// that does not split into exactly local@domain becomes "Hidden".
func MaskEmail(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return hidden
	}
	name, domain := parts[0], parts[1]
	if name == "" {
		return hidden
	}
	var short string
	if len(name) <= 2 {
		short = name[:1] + "*"
	} else {
		short = name[:1] + "***" + name[len(name)-1:]
	}
	return short + "@" + domain
}

// MaskPhone reduces a phone number to its last four digits behind a fixed
// bullet prefix. Input with no digits at all becomes "Hidden".
func MaskPhone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return hidden
	}
	if len(d) > 4 {
		d = d[len(d)-4:]
	}
	return "••••" + d
}

// MaskContact treats anything containing '@' as an email, everything else as
// a phone number.
func MaskContact(s string) string {
	if strings.Contains(s, "@") {
		return MaskEmail(s)
	}
	return MaskPhone(s)
}
