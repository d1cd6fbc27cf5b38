package league

import (
	"context"
	stderrors "errors"
	"strconv"
	"testing"
	"time"

	"github.com/yfantasy-go/yfantasy/internal/domain/fantasy"
)

func detailEntry(id int, name string, extra map[string]any) map[string]any {
	fragments := []any{
		map[string]any{"player_id": strconv.Itoa(id)},
		map[string]any{"name": map[string]any{"full": name}},
		map[string]any{"position_type": "B"},
	}
	for k, v := range extra {
		fragments = append(fragments, map[string]any{k: v})
	}
	return map[string]any{"player": []any{fragments}}
}

func detailDoc(entries ...map[string]any) map[string]any {
	container := map[string]any{"count": float64(len(entries))}
	for i, entry := range entries {
		container[strconv.Itoa(i)] = entry
	}
	return leagueDoc(
		map[string]any{"league_key": testLeagueID},
		map[string]any{"players": container},
	)
}

func TestPlayerDetails_FetchesOnlyUncachedIDs(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.byKeysDocs = []map[string]any{
		detailDoc(detailEntry(1, "First Player", nil), detailEntry(2, "Second Player", nil)),
		detailDoc(detailEntry(3, "Third Player", nil)),
	}
	players := newTestLeague(api).Players("mlb")

	if _, err := players.Details(context.Background(), []int{1, 2}); err != nil {
		t.Fatalf("first Details error: %v", err)
	}

	got, err := players.Details(context.Background(), []int{1, 2, 3})
	if err != nil {
		t.Fatalf("second Details error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d profiles, want 3", len(got))
	}
	for i, wantID := range []int{1, 2, 3} {
		if got[i]["player_id"] != wantID {
			t.Fatalf("profile %d has player_id %v, want %d (request order preserved)", i, got[i]["player_id"], wantID)
		}
	}

	if got := api.callCount("players_by_keys"); got != 2 {
		t.Fatalf("detail batches fetched %d times, want 2", got)
	}
	lastBatch := api.byKeysBatches[len(api.byKeysBatches)-1]
	if len(lastBatch) != 1 || lastBatch[0] != 3 {
		t.Fatalf("second batch requested %v, want only the uncached ID [3]", lastBatch)
	}
}

func TestPlayerDetails_ChunksLargeBatches(t *testing.T) {
	t.Parallel()

	firstChunk := make([]map[string]any, 0, MaxPlayerBatch)
	ids := make([]int, 0, 30)
	for i := 0; i < MaxPlayerBatch; i++ {
		firstChunk = append(firstChunk, detailEntry(100+i, "Bulk Player "+strconv.Itoa(i), nil))
		ids = append(ids, 100+i)
	}
	secondChunk := make([]map[string]any, 0, 5)
	for i := 0; i < 5; i++ {
		secondChunk = append(secondChunk, detailEntry(200+i, "Tail Player "+strconv.Itoa(i), nil))
		ids = append(ids, 200+i)
	}

	api := newFakeAPI()
	api.byKeysDocs = []map[string]any{detailDoc(firstChunk...), detailDoc(secondChunk...)}
	players := newTestLeague(api).Players("mlb")

	got, err := players.Details(context.Background(), ids)
	if err != nil {
		t.Fatalf("Details error: %v", err)
	}
	if len(got) != 30 {
		t.Fatalf("got %d profiles, want 30", len(got))
	}
	if got := api.callCount("players_by_keys"); got != 2 {
		t.Fatalf("fetched %d batches, want 2", got)
	}
	if len(api.byKeysBatches[0]) != MaxPlayerBatch || len(api.byKeysBatches[1]) != 5 {
		t.Fatalf("batch sizes = %d,%d, want %d,5",
			len(api.byKeysBatches[0]), len(api.byKeysBatches[1]), MaxPlayerBatch)
	}
}

func TestPlayerDetails_SingleMissFails(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.byKeysDocs = []map[string]any{detailDoc()}
	players := newTestLeague(api).Players("mlb")

	_, err := players.Details(context.Background(), []int{999})
	if !stderrors.Is(err, fantasy.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestPlayerDetails_BatchMissIsDropped(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.byKeysDocs = []map[string]any{detailDoc(detailEntry(1, "Only Player", nil))}
	players := newTestLeague(api).Players("mlb")

	got, err := players.Details(context.Background(), []int{1, 999})
	if err != nil {
		t.Fatalf("Details error: %v", err)
	}
	if len(got) != 1 || got[0]["player_id"] != 1 {
		t.Fatalf("got %v, want just player 1", got)
	}
}

func TestPlayerSearch_CachedPerTerm(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.searchDoc = detailDoc(
		detailEntry(3737, "Sidney Crosby", nil),
		detailEntry(5981, "Jake Guentzel", nil),
	)
	players := newTestLeague(api).Players("nhl")

	for i := 0; i < 2; i++ {
		got, err := players.Search(context.Background(), "Crosby")
		if err != nil {
			t.Fatalf("Search error on call %d: %v", i, err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d profiles, want 2", len(got))
		}
	}
	if got := api.callCount("search"); got != 1 {
		t.Fatalf("search fetched %d times, want 1", got)
	}
}

func TestPlayerSearch_PrimesDetailCache(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.searchDoc = detailDoc(detailEntry(3737, "Sidney Crosby", nil))
	players := newTestLeague(api).Players("nhl")

	if _, err := players.Search(context.Background(), "Crosby"); err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if _, err := players.Details(context.Background(), []int{3737}); err != nil {
		t.Fatalf("Details error: %v", err)
	}
	if got := api.callCount("players_by_keys"); got != 0 {
		t.Fatalf("detail fetch ran %d times after search primed cache, want 0", got)
	}
}

func TestMatchByName_RanksClosestFirst(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.searchDoc = detailDoc(
		detailEntry(11, "Philip Kessler", nil),
		detailEntry(12, "Phil Kessel", nil),
	)
	players := newTestLeague(api).Players("nhl")

	got, err := players.MatchByName(context.Background(), "Phil Kessel")
	if err != nil {
		t.Fatalf("MatchByName error: %v", err)
	}
	if got["player_id"] != 12 {
		t.Fatalf("matched player_id %v, want 12", got["player_id"])
	}
}

func statsEntry(id int, name string, stats map[string]any) map[string]any {
	statList := make([]any, 0, len(stats))
	for statID, value := range stats {
		statList = append(statList, map[string]any{
			"stat": map[string]any{"stat_id": statID, "value": value},
		})
	}
	return map[string]any{
		"player": []any{
			[]any{
				map[string]any{"player_id": strconv.Itoa(id)},
				map[string]any{"name": map[string]any{"full": name}},
				map[string]any{"position_type": "B"},
			},
			map[string]any{
				"player_stats": map[string]any{"stats": statList},
			},
		},
	}
}

func TestPlayerStats_LeagueNamesOverrideStaticMap(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.settingsDoc = settingsDoc() // maps stat 12 to HomeRuns
	api.statsDocs = []map[string]any{detailDoc(
		statsEntry(8370, "Dexter Fowler", map[string]any{
			"12": "14",  // HR in the static table, renamed by the league
			"3":  ".296", // AVG from the static table only
			"50": "-",    // unparseable stays a string
		}),
	)}
	players := newTestLeague(api).Players("mlb")

	rows, err := players.Stats(context.Background(), []int{8370}, "season", time.Time{}, 0)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.PlayerID != 8370 || row.Name != "Dexter Fowler" {
		t.Fatalf("unexpected row identity: %+v", row)
	}
	if got := row.Stats["HomeRuns"]; got != 14.0 {
		t.Fatalf("Stats[HomeRuns] = %v, want 14 (league display name wins)", got)
	}
	if _, present := row.Stats["HR"]; present {
		t.Fatal("static name HR should be replaced by the league display name")
	}
	if got := row.Stats["AVG"]; got != 0.296 {
		t.Fatalf("Stats[AVG] = %v, want 0.296 as float", got)
	}
	if got := row.Stats["IP"]; got != "-" {
		t.Fatalf("Stats[IP] = %v, want literal dash", got)
	}
}

func TestPlayerStats_RejectsUnknownRequestType(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	players := newTestLeague(api).Players("mlb")

	_, err := players.Stats(context.Background(), []int{1}, "fortnight", time.Time{}, 0)
	if !stderrors.Is(err, fantasy.ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
	if got := api.callCount("player_stats"); got != 0 {
		t.Fatalf("stats fetched %d times for invalid type, want 0", got)
	}
}

func TestPlayerStats_ChunksBatches(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.settingsDoc = settingsDoc()
	api.statsDocs = []map[string]any{detailDoc(), detailDoc()}
	players := newTestLeague(api).Players("mlb")

	ids := make([]int, 0, 26)
	for i := 0; i < 26; i++ {
		ids = append(ids, 1000+i)
	}
	if _, err := players.Stats(context.Background(), ids, "lastweek", time.Time{}, 0); err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if got := api.callCount("player_stats"); got != 2 {
		t.Fatalf("stats fetched in %d batches, want 2", got)
	}
	if len(api.statsBatches[0]) != MaxPlayerBatch || len(api.statsBatches[1]) != 1 {
		t.Fatalf("batch sizes = %d,%d, want %d,1",
			len(api.statsBatches[0]), len(api.statsBatches[1]), MaxPlayerBatch)
	}
}
