// Package filter decides which commander candidates survive the configured
// eligibility rules. Every rule is an exclusion: a card is admitted unless at
// least one active exclusion matches.
package filter

import (
	"strings"
	"time"

	"edh-anti-meta/internal/commander"
)

// Ability markers matched as substrings of the lowercased oracle text.
var (
	partnerMarkers           = []string{"partner with", "partner", "friends forever"}
	backgroundMarker         = "choose a background"
	companionMarker          = "companion"
	doctorsCompanionMarkers  = []string{"doctor's companion", "doctor’s companion"}
	ptkSetCode               = "ptk"
	ptkSetName               = "portal three kingdoms"
	doctorWhoSetNameFragment = "doctor who"
	timeLordTypeFragment     = "time lord"
)

// Reason identifies which exclusion rejected a card.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonPartner          Reason = "partner"
	ReasonBackground       Reason = "background"
	ReasonCompanion        Reason = "companion"
	ReasonDoctorsCompanion Reason = "doctors-companion"
	ReasonFunnySet         Reason = "funny-set"
	ReasonVanilla          Reason = "vanilla"
	ReasonRecent           Reason = "recent"
	ReasonDoctor           Reason = "doctor"
	ReasonPTK              Reason = "ptk"
)

// Config holds the include-toggles for one run. The zero value excludes every
// special category, matching the tool's defaults.
type Config struct {
	IncludePartners          bool
	IncludeBackgrounds       bool
	IncludeCompanions        bool
	IncludeDoctorsCompanions bool
	IncludeFunnySets         bool
	IncludeVanilla           bool
	IncludePTK               bool
	IncludeDoctors           bool
	IncludeRecent            bool

	// RecentDays is the recency window in days. 0 disables recency logic
	// entirely.
	RecentDays int

	// PTKStrict scans all printings of a card for a Portal Three Kingdoms
	// printing instead of trusting the representative printing alone.
	PTKStrict bool

	// StrictWorkers bounds concurrent printings lookups in strict PTK mode.
	StrictWorkers int
}

// Admit applies the pure (no-network) predicates and reports the first
// matching rejection reason. The predicates are independent, so the check
// order only affects which reason is reported, never the admit decision.
func Admit(card commander.CardRecord, cfg Config, now time.Time) (bool, Reason) {
	text := strings.ToLower(card.OracleText)

	if !cfg.IncludePartners && containsAny(text, partnerMarkers) {
		return false, ReasonPartner
	}
	if !cfg.IncludeBackgrounds && strings.Contains(text, backgroundMarker) {
		return false, ReasonBackground
	}
	if !cfg.IncludeCompanions && strings.Contains(text, companionMarker) {
		return false, ReasonCompanion
	}
	if !cfg.IncludeDoctorsCompanions && containsAny(text, doctorsCompanionMarkers) {
		return false, ReasonDoctorsCompanion
	}
	if !cfg.IncludeFunnySets && card.SetType == "funny" {
		return false, ReasonFunnySet
	}
	if !cfg.IncludeVanilla && isVanilla(card) {
		return false, ReasonVanilla
	}
	if !cfg.IncludeRecent && isRecent(card, cfg.RecentDays, now) {
		return false, ReasonRecent
	}
	if !cfg.IncludeDoctors && isDoctor(card) {
		return false, ReasonDoctor
	}
	if !cfg.IncludePTK && looksLikePTK(card) {
		return false, ReasonPTK
	}
	return true, ReasonNone
}

// isVanilla reports a creature with no rules text. Keyword abilities appear
// in the oracle text, so keyworded creatures are never vanilla.
func isVanilla(card commander.CardRecord) bool {
	if !strings.Contains(strings.ToLower(card.TypeLine), "creature") {
		return false
	}
	return strings.TrimSpace(card.OracleText) == ""
}

// isRecent reports whether the representative printing released inside the
// recency window. A card exactly `days` old sits on the boundary and is NOT
// recent. A recent reprint can mark an old commander as recent, since the
// check sees only the representative printing.
func isRecent(card commander.CardRecord, days int, now time.Time) bool {
	if days <= 0 || card.ReleasedAt.IsZero() {
		return false
	}
	cutoff := now.UTC().AddDate(0, 0, -days)
	return card.ReleasedAt.After(cutoff)
}

// isDoctor matches the Time Lord Doctors themselves. Requiring both the
// Doctor Who set name (covers promos) and the Time Lord type line avoids
// false positives on crossover reprints.
func isDoctor(card commander.CardRecord) bool {
	return strings.Contains(strings.ToLower(card.SetName), doctorWhoSetNameFragment) &&
		strings.Contains(strings.ToLower(card.TypeLine), timeLordTypeFragment)
}

// looksLikePTK is the fast heuristic: only the representative printing is
// checked, so it can miss commanders whose canonical printing is not PTK.
func looksLikePTK(card commander.CardRecord) bool {
	return strings.ToLower(card.SetCode) == ptkSetCode ||
		strings.Contains(strings.ToLower(card.SetName), ptkSetName)
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
