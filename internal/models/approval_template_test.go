package models

import "testing"

func TestMatchesKind(t *testing.T) {
	tpl := &ApprovalTemplate{
		ChangeKinds: []string{KindFormatting, KindEdit},
	}

	if !tpl.MatchesKind(KindFormatting) {
		t.Error("MatchesKind(formatting) = false, want true")
	}
	if !tpl.MatchesKind(KindEdit) {
		t.Error("MatchesKind(edit) = false, want true")
	}
	if tpl.MatchesKind(KindDeletion) {
		t.Error("MatchesKind(deletion) = true, want false")
	}

	empty := &ApprovalTemplate{}
	if empty.MatchesKind(KindEdit) {
		t.Error("MatchesKind() on empty set = true, want false")
	}
}
