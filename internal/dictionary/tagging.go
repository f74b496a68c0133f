package dictionary

import (
	"strings"

	"siliconpulse/internal/model"
)

// companyTags maps unambiguous keywords to canonical company names for
// tagging events that arrive without one. Intentionally narrower than
// the alias lists: shared aliases like "foundry" or "tsmc" under Apple
// would mis-tag.
var companyTags = []struct{ keyword, name string }{
	{"nvidia", "NVIDIA"},
	{"tsmc", "TSMC"},
	{"intel", "Intel"},
	{"apple", "Apple"},
	{"amd", "AMD"},
	{"asml", "ASML"},
	{"samsung", "Samsung"},
	{"google", "Google"},
	{"meta", "Meta"},
	{"microsoft", "Microsoft"},
	{"arm", "ARM"},
}

var eventTypeTags = []struct{ keyword, eventType string }{
	{"launch", "product_launch"},
	{"release", "product_launch"},
	{"contract", "contract"},
	{"deal", "contract"},
	{"partnership", "contract"},
	{"supply", "supply_chain"},
	{"yield", "supply_chain"},
	{"foundry", "supply_chain"},
	{"fab", "supply_chain"},
	{"acquisition", "m_and_a"},
	{"merger", "m_and_a"},
	{"earnings", "financial"},
	{"revenue", "financial"},
	{"profit", "financial"},
}

// TagCompany keeps an existing company tag and otherwise derives one
// from keywords in the title and content.
func (d *Dictionary) TagCompany(title, content, existing string) string {
	if existing != "" && !strings.EqualFold(existing, model.UnknownCompany) {
		return existing
	}

	text := strings.ToLower(title + " " + content)
	for _, t := range companyTags {
		if strings.Contains(text, t.keyword) {
			return t.name
		}
	}
	return model.UnknownCompany
}

// TagEventType keeps an existing event type and otherwise derives one
// from keywords in the title and content.
func (d *Dictionary) TagEventType(title, content, existing string) string {
	if existing != "" && !strings.EqualFold(existing, model.UnknownCompany) && existing != model.GeneralEventType {
		return existing
	}

	text := strings.ToLower(title + " " + content)
	for _, t := range eventTypeTags {
		if strings.Contains(text, t.keyword) {
			return t.eventType
		}
	}
	return model.GeneralEventType
}
