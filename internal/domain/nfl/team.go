package nfl

import (
	"strconv"
	"strings"
)

// Team is one NFL franchise joined with its season standing.
type Team struct {
	ID          string
	Location    string
	Name        string
	ShortName   string
	DisplayName string
	LogoURL     string
	Wins        int
	Losses      int
	Ties        int
}

// LinkedTeam is a team record owned by another system. ProviderTeamID holds
// the upstream team uid that system stored for it.
type LinkedTeam struct {
	ID             string
	ProviderTeamID string
}

// NewTeam builds a team from its provider record and the standing found for
// it. A team without a standing carries a zero record.
func NewTeam(raw RawTeam, standing Standing) (*Team, error) {
	if err := validateRecord(raw); err != nil {
		return nil, malformed("team", raw.Identifier(), err)
	}

	logo := raw.SportacularLogo
	if len(raw.Logos) > 0 {
		logo = firstNonEmpty(raw.Logos[0].Href, raw.SportacularLogo)
	}

	return &Team{
		ID:          raw.Identifier(),
		Location:    strings.TrimSpace(raw.Location),
		Name:        firstNonEmpty(raw.ShortDisplayName, raw.Name),
		ShortName:   strings.ToLower(strings.TrimSpace(raw.Abbreviation)),
		DisplayName: firstNonEmpty(raw.DisplayName, raw.FullName),
		LogoURL:     strings.TrimSpace(logo),
		Wins:        standing.Wins,
		Losses:      standing.Losses,
		Ties:        standing.Ties,
	}, nil
}

// Record formats the standing as W-L or W-L-T when ties exist.
func (t *Team) Record() string {
	if t.Ties > 0 {
		return strconv.Itoa(t.Wins) + "-" + strconv.Itoa(t.Losses) + "-" + strconv.Itoa(t.Ties)
	}
	return strconv.Itoa(t.Wins) + "-" + strconv.Itoa(t.Losses)
}

// LinkedID returns the id of the first linked team that references this team.
func (t *Team) LinkedID(candidates []LinkedTeam) (string, bool) {
	for _, candidate := range candidates {
		if candidate.ProviderTeamID == t.ID {
			return candidate.ID, true
		}
	}
	return "", false
}
