package fantasy

import "time"

// PlayerRecord is one row of a league-wide player listing (free agents,
// waivers, taken players).
type PlayerRecord struct {
	PlayerID          int      `json:"player_id"`
	Name              string   `json:"name"`
	Status            string   `json:"status"`
	PositionType      string   `json:"position_type"`
	EligiblePositions []string `json:"eligible_positions"`
	PercentOwned      int      `json:"percent_owned"`
}

// TeamRecord keeps the team key separate and carries everything else the
// provider reports about the team as loosely typed attributes.
type TeamRecord struct {
	TeamKey    string         `json:"team_key"`
	Attributes map[string]any `json:"attributes"`
}

type StandingsEntry struct {
	TeamKey       string            `json:"team_key"`
	Name          string            `json:"name"`
	Rank          int               `json:"rank"`
	PlayoffSeed   string            `json:"playoff_seed"`
	OutcomeTotals map[string]string `json:"outcome_totals"`
	GamesBack     string            `json:"games_back"`
}

type DraftPick struct {
	Pick     int    `json:"pick"`
	Round    int    `json:"round"`
	Cost     string `json:"cost"`
	TeamKey  string `json:"team_key"`
	PlayerID int    `json:"player_id"`
}

type TransactionRecord struct {
	TransactionID  string         `json:"transaction_id"`
	TransactionKey string         `json:"transaction_key"`
	Type           string         `json:"type"`
	Status         string         `json:"status"`
	Timestamp      string         `json:"timestamp"`
	TraderTeamKey  string         `json:"trader_team_key"`
	TraderTeamName string         `json:"trader_team_name"`
	TradeeTeamKey  string         `json:"tradee_team_key"`
	TradeeTeamName string         `json:"tradee_team_name"`
	FAABBid        string         `json:"faab_bid"`
	Players        map[string]any `json:"players"`
}

// StatRow holds one player's stat line; values are float64 when the provider
// reports a parseable number and string otherwise (e.g. "-", "2/4").
type StatRow struct {
	PlayerID     int            `json:"player_id"`
	Name         string         `json:"name"`
	PositionType string         `json:"position_type"`
	Stats        map[string]any `json:"stats"`
}

type StatCategory struct {
	DisplayName  string `json:"display_name"`
	PositionType string `json:"position_type"`
}

type RosterPosition struct {
	PositionType string         `json:"position_type"`
	Count        int            `json:"count"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type PercentOwnedEntry struct {
	PlayerID     int    `json:"player_id"`
	Name         string `json:"name"`
	PercentOwned int    `json:"percent_owned"`
}

type OwnershipInfo struct {
	OwnershipType string `json:"ownership_type"`
	OwnerTeamKey  string `json:"owner_team_key,omitempty"`
	OwnerTeamName string `json:"owner_team_name,omitempty"`
}

// PlayerProfile is the flattened detail document for one player; the provider
// varies the field set by sport, so it stays loosely typed.
type PlayerProfile = map[string]any

// LeagueSettings is the merged league header plus settings fragment.
type LeagueSettings = map[string]any
