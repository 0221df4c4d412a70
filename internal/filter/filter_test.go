package filter

import (
	"testing"
	"time"

	"edh-anti-meta/internal/commander"
)

var testNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func creature(name, oracleText string) commander.CardRecord {
	return commander.CardRecord{
		Name:       name,
		TypeLine:   "Legendary Creature — Human Wizard",
		OracleText: oracleText,
		SetCode:    "lea",
		SetName:    "Limited Edition Alpha",
		SetType:    "core",
		ReleasedAt: time.Date(1993, 8, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestAdmit_PlainCommander(t *testing.T) {
	card := creature("Rashka the Slayer", "Reach, protection from black")
	ok, reason := Admit(card, Config{RecentDays: 90}, testNow)
	if !ok {
		t.Fatalf("expected admit, got rejection %q", reason)
	}
}

func TestAdmit_ExclusionToggles(t *testing.T) {
	tests := []struct {
		name    string
		card    commander.CardRecord
		include func(*Config)
		reason  Reason
	}{
		{
			name:    "partner",
			card:    creature("Tymna the Weaver", "Partner (You can have two commanders...)"),
			include: func(c *Config) { c.IncludePartners = true },
			reason:  ReasonPartner,
		},
		{
			name:    "partner with",
			card:    creature("Pako, Arcane Retriever", "Partner with Haldan, Avid Arcanist"),
			include: func(c *Config) { c.IncludePartners = true },
			reason:  ReasonPartner,
		},
		{
			name:    "friends forever",
			card:    creature("Bjorna, Nightfall Alchemist", "Friends forever"),
			include: func(c *Config) { c.IncludePartners = true },
			reason:  ReasonPartner,
		},
		{
			name:    "background",
			card:    creature("Wilson, Refined Grizzly", "Choose a Background (You can have a Background as a second commander.)"),
			include: func(c *Config) { c.IncludeBackgrounds = true },
			reason:  ReasonBackground,
		},
		{
			name:    "companion",
			card:    creature("Umori, the Collector", "Companion — Each permanent card..."),
			include: func(c *Config) { c.IncludeCompanions = true },
			reason:  ReasonCompanion,
		},
		{
			name: "funny set",
			card: func() commander.CardRecord {
				c := creature("Grimlock, Dinobot Leader", "More than meets the eye")
				c.SetType = "funny"
				return c
			}(),
			include: func(c *Config) { c.IncludeFunnySets = true },
			reason:  ReasonFunnySet,
		},
		{
			name:    "vanilla",
			card:    creature("Torsten Von Ursus", ""),
			include: func(c *Config) { c.IncludeVanilla = true },
			reason:  ReasonVanilla,
		},
		{
			name: "ptk representative printing",
			card: func() commander.CardRecord {
				c := creature("Sun Quan, Lord of Wu", "Horsemanship")
				c.SetCode = "ptk"
				c.SetName = "Portal Three Kingdoms"
				return c
			}(),
			include: func(c *Config) { c.IncludePTK = true },
			reason:  ReasonPTK,
		},
		{
			name: "doctor",
			card: func() commander.CardRecord {
				c := creature("The Tenth Doctor", "Allons-y!")
				c.TypeLine = "Legendary Creature — Time Lord Doctor"
				c.SetName = "Doctor Who"
				return c
			}(),
			include: func(c *Config) { c.IncludeDoctors = true },
			reason:  ReasonDoctor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{RecentDays: 90}
			ok, reason := Admit(tt.card, cfg, testNow)
			if ok {
				t.Fatal("expected exclusion with default config")
			}
			if reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, reason)
			}

			tt.include(&cfg)
			if ok, reason := Admit(tt.card, cfg, testNow); !ok {
				t.Errorf("expected admit with include flag set, got rejection %q", reason)
			}
		})
	}
}

func TestAdmit_DoctorsCompanionApostropheVariants(t *testing.T) {
	for _, text := range []string{
		"Doctor's companion (You can have two commanders...)",
		"Doctor’s companion (You can have two commanders...)",
	} {
		card := creature("Clara Oswald", text)
		// Companion substring matching would fire first; only the
		// doctors-companion rule is active here.
		cfg := Config{IncludeCompanions: true, RecentDays: 90}
		ok, reason := Admit(card, cfg, testNow)
		if ok {
			t.Errorf("text %q: expected exclusion", text)
		}
		if reason != ReasonDoctorsCompanion {
			t.Errorf("text %q: expected reason %q, got %q", text, ReasonDoctorsCompanion, reason)
		}

		cfg.IncludeDoctorsCompanions = true
		if ok, _ := Admit(card, cfg, testNow); !ok {
			t.Errorf("text %q: expected admit with include flag", text)
		}
	}
}

func TestAdmit_VanillaNonCreatureIsNotVanilla(t *testing.T) {
	card := creature("Sol Ring", "")
	card.TypeLine = "Artifact"
	if ok, _ := Admit(card, Config{}, testNow); !ok {
		t.Error("empty-text non-creature must not be excluded as vanilla")
	}
}

func TestAdmit_RecencyBoundary(t *testing.T) {
	cfg := Config{RecentDays: 90}

	boundary := creature("Boundary Commander", "Flying")
	boundary.ReleasedAt = testNow.AddDate(0, 0, -90)
	if ok, reason := Admit(boundary, cfg, testNow); !ok {
		t.Errorf("card exactly 90 days old must be admitted, got rejection %q", reason)
	}

	inside := creature("Fresh Commander", "Flying")
	inside.ReleasedAt = testNow.AddDate(0, 0, -89)
	if ok, _ := Admit(inside, cfg, testNow); ok {
		t.Error("card 89 days old must be excluded as recent")
	}
	if _, reason := Admit(inside, cfg, testNow); reason != ReasonRecent {
		t.Errorf("expected reason %q, got %q", ReasonRecent, reason)
	}

	cfg.IncludeRecent = true
	if ok, _ := Admit(inside, cfg, testNow); !ok {
		t.Error("include-recent must admit recent cards")
	}
}

func TestAdmit_RecentDaysZeroDisablesRecency(t *testing.T) {
	card := creature("Yesterday's Commander", "Haste")
	card.ReleasedAt = testNow.AddDate(0, 0, -1)

	if ok, _ := Admit(card, Config{RecentDays: 0}, testNow); !ok {
		t.Error("recent-days 0 must disable the recency exclusion entirely")
	}
}

func TestAdmit_MissingReleaseDateIsNotRecent(t *testing.T) {
	card := creature("Undated Commander", "Trample")
	card.ReleasedAt = time.Time{}

	if ok, _ := Admit(card, Config{RecentDays: 90}, testNow); !ok {
		t.Error("card without a release date must not be excluded as recent")
	}
}

func TestAdmit_DoctorRequiresBothMarkers(t *testing.T) {
	// Doctor Who reprint of a non-Doctor: set matches, type line does not.
	reprint := creature("Dalek Drone", "Menace")
	reprint.SetName = "Doctor Who Commander"
	if ok, _ := Admit(reprint, Config{RecentDays: 0}, testNow); !ok {
		t.Error("Doctor Who card without Time Lord type must be admitted")
	}

	// Time Lord outside a Doctor Who set.
	outside := creature("Generic Time Lord", "Vigilance")
	outside.TypeLine = "Legendary Creature — Time Lord"
	if ok, _ := Admit(outside, Config{RecentDays: 0}, testNow); !ok {
		t.Error("Time Lord outside Doctor Who sets must be admitted")
	}
}
