package rules

import (
	"github.com/jruiznavarro/wargamestactics/internal/game/event"
	"github.com/jruiznavarro/wargamestactics/internal/game/template"
)

// matches reports whether a rule's static Trigger fires for the given
// firing trigger kind and (for on_event) event tag -- structural variant
// equality per spec.md section 4.2 step 1.
func matches(trigger template.Trigger, kind template.TriggerKind, tag event.Tag) bool {
	if trigger.Kind != kind {
		return false
	}
	if kind == template.TriggerOnEvent {
		return trigger.EventTag == tag
	}
	return true
}
