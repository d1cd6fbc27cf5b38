package league

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/yfantasy-go/yfantasy/internal/domain/fantasy"
)

// CurrentWeek reports the week the league is currently playing.
func (l *League) CurrentWeek(ctx context.Context) (int, error) {
	value, err := l.store.GetOrLoad(ctx, "current_week", func(ctx context.Context) (any, error) {
		doc, err := l.api.ScoreboardRaw(ctx, l.leagueID, 0)
		if err != nil {
			return nil, err
		}
		raw, ok := firstNode(doc, "current_week")
		if !ok {
			return nil, fmt.Errorf("%w: current_week missing from scoreboard document", fantasy.ErrNotFound)
		}
		week, ok := asInt(raw)
		if !ok {
			return nil, fmt.Errorf("malformed current_week value %v", raw)
		}
		return week, nil
	})
	if err != nil {
		return 0, err
	}
	return value.(int), nil
}

// EndWeek reports the final week of the league schedule.
func (l *League) EndWeek(ctx context.Context) (int, error) {
	value, err := l.store.GetOrLoad(ctx, "end_week", func(ctx context.Context) (any, error) {
		doc, err := l.api.ScoreboardRaw(ctx, l.leagueID, 0)
		if err != nil {
			return nil, err
		}
		raw, ok := firstNode(doc, "end_week")
		if !ok {
			return nil, fmt.Errorf("%w: end_week missing from scoreboard document", fantasy.ErrNotFound)
		}
		week, ok := asInt(raw)
		if !ok {
			return nil, fmt.Errorf("malformed end_week value %v", raw)
		}
		return week, nil
	})
	if err != nil {
		return 0, err
	}
	return value.(int), nil
}

// WeekDateRange returns the calendar span covered by a week. Played and
// current weeks come from the provider; the week immediately after the
// current one is derived arithmetically because the provider reports wrong
// dates for future weeks. Anything further out is rejected before any
// remote call for that week is made.
func (l *League) WeekDateRange(ctx context.Context, week int) (fantasy.DateRange, error) {
	if week < 1 {
		return fantasy.DateRange{}, fmt.Errorf("%w: week %d is out of range", fantasy.ErrInvalidRequest, week)
	}

	current, err := l.CurrentWeek(ctx)
	if err != nil {
		return fantasy.DateRange{}, err
	}

	switch {
	case week <= current || week == 1:
		return l.playedWeekDateRange(ctx, week)
	case week == current+1:
		prior, err := l.playedWeekDateRange(ctx, week-1)
		if err != nil {
			return fantasy.DateRange{}, err
		}
		return fantasy.DateRange{
			Start: prior.End.AddDate(0, 0, 1),
			End:   prior.End.AddDate(0, 0, 7),
		}, nil
	default:
		return fantasy.DateRange{}, fmt.Errorf(
			"%w: cannot request a date range more than one week ahead (week=%d current=%d)",
			fantasy.ErrInvalidRequest, week, current)
	}
}

func (l *League) playedWeekDateRange(ctx context.Context, week int) (fantasy.DateRange, error) {
	value, err := l.store.GetOrLoad(ctx, "week_range:"+strconv.Itoa(week), func(ctx context.Context) (any, error) {
		doc, err := l.api.ScoreboardRaw(ctx, l.leagueID, week)
		if err != nil {
			return nil, err
		}
		return weekRangeFromDoc(doc)
	})
	if err != nil {
		return fantasy.DateRange{}, err
	}
	return value.(fantasy.DateRange), nil
}

func weekRangeFromDoc(doc map[string]any) (fantasy.DateRange, error) {
	startNode, okStart := firstNode(doc, "week_start")
	endNode, okEnd := firstNode(doc, "week_end")
	if !okStart || !okEnd {
		return fantasy.DateRange{}, fmt.Errorf("%w: week boundaries missing from scoreboard document", fantasy.ErrNotFound)
	}

	start, err := time.Parse("2006-01-02", fmt.Sprint(startNode))
	if err != nil {
		return fantasy.DateRange{}, fmt.Errorf("parse week_start: %w", err)
	}
	end, err := time.Parse("2006-01-02", fmt.Sprint(endNode))
	if err != nil {
		return fantasy.DateRange{}, fmt.Errorf("parse week_end: %w", err)
	}
	return fantasy.DateRange{Start: start, End: end}, nil
}
