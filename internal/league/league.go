package league

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yfantasy-go/yfantasy/internal/domain/fantasy"
	"github.com/yfantasy-go/yfantasy/internal/platform/cache"
	"github.com/yfantasy-go/yfantasy/internal/platform/logging"
)

// RawAPI is the slice of the provider transport the league session consumes.
// Every method returns the decoded JSON document untouched.
type RawAPI interface {
	StandingsRaw(ctx context.Context, leagueID string) (map[string]any, error)
	SettingsRaw(ctx context.Context, leagueID string) (map[string]any, error)
	ScoreboardRaw(ctx context.Context, leagueID string, week int) (map[string]any, error)
	PlayersRaw(ctx context.Context, leagueID string, start int, status, position string) (map[string]any, error)
	PlayersByKeysRaw(ctx context.Context, leagueID string, playerIDs []int) (map[string]any, error)
	SearchPlayersRaw(ctx context.Context, leagueID, search string) (map[string]any, error)
	PercentOwnedRaw(ctx context.Context, leagueID string, playerIDs []int) (map[string]any, error)
	OwnershipRaw(ctx context.Context, leagueID string, playerIDs []int) (map[string]any, error)
	DraftResultsRaw(ctx context.Context, leagueID string) (map[string]any, error)
	TransactionsRaw(ctx context.Context, leagueID, tranTypes, count string) (map[string]any, error)
	PlayerStatsRaw(ctx context.Context, gameCode string, playerIDs []int, reqType string, day time.Time, season int) (map[string]any, error)
	UserTeamsRaw(ctx context.Context) (map[string]any, error)
}

// League is a session bound to one league. Fetched entities are memoized for
// the lifetime of the session; construct a fresh League to see newer data.
type League struct {
	api      RawAPI
	leagueID string
	logger   *logging.Logger
	store    *cache.Store
}

func New(api RawAPI, leagueID string, logger *logging.Logger) *League {
	if logger == nil {
		logger = logging.Default()
	}
	return &League{
		api:      api,
		leagueID: leagueID,
		logger:   logger.With("league_id", leagueID),
		store:    cache.NewStore(0),
	}
}

func (l *League) LeagueID() string {
	return l.leagueID
}

// ResetCaches drops every memoized entity so the next accessor refetches.
func (l *League) ResetCaches() {
	l.store.Reset()
}

// Standings returns the ranked team rows in the order the provider lists them.
func (l *League) Standings(ctx context.Context) ([]fantasy.StandingsEntry, error) {
	value, err := l.store.GetOrLoad(ctx, "standings", func(ctx context.Context) (any, error) {
		doc, err := l.api.StandingsRaw(ctx, l.leagueID)
		if err != nil {
			return nil, err
		}
		return standingsFromDoc(doc), nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]fantasy.StandingsEntry), nil
}

// Teams returns every team in the league keyed by team key.
func (l *League) Teams(ctx context.Context) (map[string]fantasy.TeamRecord, error) {
	value, err := l.store.GetOrLoad(ctx, "teams", func(ctx context.Context) (any, error) {
		doc, err := l.api.StandingsRaw(ctx, l.leagueID)
		if err != nil {
			return nil, err
		}
		return teamsFromDoc(doc), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(map[string]fantasy.TeamRecord), nil
}

// Settings merges the league header with the settings fragment. Roster
// positions and stat categories have richer accessors of their own and are
// excluded from the flat map.
func (l *League) Settings(ctx context.Context) (fantasy.LeagueSettings, error) {
	value, err := l.store.GetOrLoad(ctx, "settings", func(ctx context.Context) (any, error) {
		doc, err := l.api.SettingsRaw(ctx, l.leagueID)
		if err != nil {
			return nil, err
		}
		return settingsFromDoc(doc), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(fantasy.LeagueSettings), nil
}

// StatCategories lists the scoring categories, skipping display-only entries.
func (l *League) StatCategories(ctx context.Context) ([]fantasy.StatCategory, error) {
	value, err := l.store.GetOrLoad(ctx, "stat_categories", func(ctx context.Context) (any, error) {
		doc, err := l.api.SettingsRaw(ctx, l.leagueID)
		if err != nil {
			return nil, err
		}
		return statCategoriesFromDoc(doc), nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]fantasy.StatCategory), nil
}

// Positions returns the configured roster slots keyed by position name.
func (l *League) Positions(ctx context.Context) (map[string]fantasy.RosterPosition, error) {
	value, err := l.store.GetOrLoad(ctx, "positions", func(ctx context.Context) (any, error) {
		doc, err := l.api.SettingsRaw(ctx, l.leagueID)
		if err != nil {
			return nil, err
		}
		return positionsFromDoc(doc), nil
	})
	if err != nil {
		return nil, err
	}
	return value.(map[string]fantasy.RosterPosition), nil
}

// EditDate reports the next day roster edits take effect.
func (l *League) EditDate(ctx context.Context) (time.Time, error) {
	value, err := l.store.GetOrLoad(ctx, "edit_date", func(ctx context.Context) (any, error) {
		doc, err := l.api.SettingsRaw(ctx, l.leagueID)
		if err != nil {
			return nil, err
		}
		raw, ok := firstNode(doc, "edit_key")
		if !ok {
			return nil, fmt.Errorf("%w: edit_key missing from settings document", fantasy.ErrNotFound)
		}
		parsed, parseErr := time.Parse("2006-01-02", fmt.Sprint(raw))
		if parseErr != nil {
			return nil, fmt.Errorf("parse edit_key: %w", parseErr)
		}
		return parsed, nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return value.(time.Time), nil
}

// TeamKey resolves the logged-in user's team in this league.
func (l *League) TeamKey(ctx context.Context) (string, error) {
	value, err := l.store.GetOrLoad(ctx, "team_key", func(ctx context.Context) (any, error) {
		doc, err := l.api.UserTeamsRaw(ctx)
		if err != nil {
			return nil, err
		}
		for _, node := range collectNodes(doc, "team_key") {
			key, ok := node.(string)
			if ok && strings.HasPrefix(key, l.leagueID+".") {
				return key, nil
			}
		}
		return nil, fmt.Errorf("%w: no team for league %s", fantasy.ErrNotFound, l.leagueID)
	})
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Matchups returns the raw scoreboard document for a week; callers needing
// shapes beyond what the typed accessors expose walk it themselves.
func (l *League) Matchups(ctx context.Context, week int) (map[string]any, error) {
	doc, err := l.api.ScoreboardRaw(ctx, l.leagueID, week)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func standingsFromDoc(doc map[string]any) []fantasy.StandingsEntry {
	teamsNode, _ := firstNode(doc, "teams")
	container, _ := teamsNode.(map[string]any)

	var out []fantasy.StandingsEntry
	for _, item := range indexedItems(container) {
		wrapper, ok := item.(map[string]any)
		if !ok {
			continue
		}
		teamArr, ok := wrapper["team"].([]any)
		if !ok || len(teamArr) == 0 {
			continue
		}
		identity := foldFragments(teamArr[0])

		entry := fantasy.StandingsEntry{
			TeamKey: getString(identity, "team_key"),
			Name:    getString(identity, "name"),
		}
		if standingsNode, ok := firstNode(teamArr, "team_standings"); ok {
			if st, ok := standingsNode.(map[string]any); ok {
				entry.Rank = getInt(st, "rank")
				entry.PlayoffSeed = getString(st, "playoff_seed")
				entry.GamesBack = getString(st, "games_back")
				if totals, ok := st["outcome_totals"].(map[string]any); ok {
					entry.OutcomeTotals = make(map[string]string, len(totals))
					for k := range totals {
						entry.OutcomeTotals[k] = getString(totals, k)
					}
				}
			}
		}
		out = append(out, entry)
	}
	return out
}

func teamsFromDoc(doc map[string]any) map[string]fantasy.TeamRecord {
	teamsNode, _ := firstNode(doc, "teams")
	container, _ := teamsNode.(map[string]any)

	out := make(map[string]fantasy.TeamRecord)
	for _, item := range indexedItems(container) {
		wrapper, ok := item.(map[string]any)
		if !ok {
			continue
		}
		teamArr, ok := wrapper["team"].([]any)
		if !ok || len(teamArr) == 0 {
			continue
		}
		identity := foldFragments(teamArr[0])
		teamKey := getString(identity, "team_key")
		if teamKey == "" {
			continue
		}
		attrs := make(map[string]any, len(identity))
		for k, v := range identity {
			if k == "team_key" {
				continue
			}
			attrs[k] = v
		}
		out[teamKey] = fantasy.TeamRecord{TeamKey: teamKey, Attributes: attrs}
	}
	return out
}

func settingsFromDoc(doc map[string]any) fantasy.LeagueSettings {
	out := make(fantasy.LeagueSettings)

	if leagueNode, ok := firstNode(doc, "league"); ok {
		if fragments, ok := leagueNode.([]any); ok && len(fragments) > 0 {
			if header, ok := fragments[0].(map[string]any); ok {
				mergeRecord(out, header)
			}
		}
	}
	if settingsNode, ok := firstNode(doc, "settings"); ok {
		settings := foldFragments(settingsNode)
		mergeRecord(out, settings, "roster_positions", "stat_categories")
	}
	return out
}

func statCategoriesFromDoc(doc map[string]any) []fantasy.StatCategory {
	categoriesNode, ok := firstNode(doc, "stat_categories")
	if !ok {
		return nil
	}

	var out []fantasy.StatCategory
	for _, node := range collectNodes(categoriesNode, "stat") {
		stat, ok := node.(map[string]any)
		if !ok {
			continue
		}
		if _, displayOnly := stat["is_only_display_stat"]; displayOnly {
			continue
		}
		out = append(out, fantasy.StatCategory{
			DisplayName:  getString(stat, "display_name"),
			PositionType: getString(stat, "position_type"),
		})
	}
	return out
}

func positionsFromDoc(doc map[string]any) map[string]fantasy.RosterPosition {
	out := make(map[string]fantasy.RosterPosition)
	for _, node := range collectNodes(doc, "roster_position") {
		pos, ok := node.(map[string]any)
		if !ok {
			continue
		}
		name := getString(pos, "position")
		if name == "" {
			continue
		}
		record := fantasy.RosterPosition{
			PositionType: getString(pos, "position_type"),
			Count:        getInt(pos, "count"),
		}
		for k, v := range pos {
			switch k {
			case "position", "position_type", "count":
				continue
			}
			if record.Attributes == nil {
				record.Attributes = make(map[string]any)
			}
			record.Attributes[k] = v
		}
		out[name] = record
	}
	return out
}
