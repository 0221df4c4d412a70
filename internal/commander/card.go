// Package commander builds the candidate pool of commander-eligible cards
// from raw Scryfall search results.
package commander

import (
	"net/url"
	"strings"
	"time"

	"edh-anti-meta/internal/scryfall"
)

const routeURLPrefix = "https://edhrec.com/route/?cc="

// CardRecord is an immutable descriptor of one commander candidate. It is
// built once from the representative Scryfall printing and read-only after
// that.
type CardRecord struct {
	Name            string
	OracleID        string
	ColorIdentity   []string
	Rarity          string
	TypeLine        string
	OracleText      string
	Keywords        []string
	SetCode         string
	SetName         string
	SetType         string
	ReleasedAt      time.Time // zero when Scryfall omits or mangles the date
	PrintsSearchURI string

	edhrecURI string
}

// NewCardRecord maps a Scryfall card onto a CardRecord. Cards with faces
// (MDFCs) fall back to the front face for rules text and type line when the
// top-level fields are empty.
func NewCardRecord(c scryfall.Card) CardRecord {
	oracleText := c.OracleText
	typeLine := c.TypeLine
	if len(c.CardFaces) > 0 {
		if oracleText == "" {
			oracleText = c.CardFaces[0].OracleText
		}
		if typeLine == "" {
			typeLine = c.CardFaces[0].TypeLine
		}
	}

	var released time.Time
	if c.ReleasedAt != "" {
		if t, err := time.Parse("2006-01-02", c.ReleasedAt); err == nil {
			released = t
		}
	}

	return CardRecord{
		Name:            c.Name,
		OracleID:        c.OracleID,
		ColorIdentity:   c.ColorIdentity,
		Rarity:          c.Rarity,
		TypeLine:        typeLine,
		OracleText:      oracleText,
		Keywords:        c.Keywords,
		SetCode:         c.SetCode,
		SetName:         c.SetName,
		SetType:         c.SetType,
		ReleasedAt:      released,
		PrintsSearchURI: c.PrintsSearchURI,
		edhrecURI:       c.RelatedURIs["edhrec"],
	}
}

// EDHRECURL returns the EDHREC page for the card, preferring the related URI
// Scryfall publishes and falling back to the EDHREC name router.
func (r CardRecord) EDHRECURL() string {
	if r.edhrecURI != "" {
		return r.edhrecURI
	}
	return routeURLPrefix + url.QueryEscape(r.Name)
}

// isCommanderFace reports whether the type line describes a legendary
// creature face.
func isCommanderFace(c scryfall.Card) bool {
	tl := c.TypeLine
	if tl == "" && len(c.CardFaces) > 0 {
		tl = c.CardFaces[0].TypeLine
	}
	return strings.Contains(tl, "Legendary") && strings.Contains(tl, "Creature")
}

// BuildPool keeps legendary-creature faces and collapses reprints by oracle
// ID, keeping the first (representative) printing. Scryfall's name ordering
// is preserved.
func BuildPool(cards []scryfall.Card) []CardRecord {
	seen := make(map[string]struct{}, len(cards))
	pool := make([]CardRecord, 0, len(cards))

	for _, c := range cards {
		if !isCommanderFace(c) {
			continue
		}
		key := c.OracleID
		if key == "" {
			key = c.ID
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		pool = append(pool, NewCardRecord(c))
	}

	return pool
}
