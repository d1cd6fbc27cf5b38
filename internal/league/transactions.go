package league

import (
	"context"

	"github.com/yfantasy-go/yfantasy/internal/domain/fantasy"
)

// Transactions lists league transactions of the requested types
// (e.g. "add,drop,trade"). Each record pairs the detail fragment with the
// sibling fragment naming the players involved.
func (l *League) Transactions(ctx context.Context, tranTypes, count string) ([]fantasy.TransactionRecord, error) {
	doc, err := l.api.TransactionsRaw(ctx, l.leagueID, tranTypes, count)
	if err != nil {
		return nil, err
	}
	return transactionsFromDoc(doc), nil
}

func transactionsFromDoc(doc map[string]any) []fantasy.TransactionRecord {
	transactionsNode, _ := firstNode(doc, "transactions")
	container, _ := transactionsNode.(map[string]any)

	var out []fantasy.TransactionRecord
	for _, item := range indexedItems(container) {
		wrapper, ok := item.(map[string]any)
		if !ok {
			continue
		}
		fragments, ok := wrapper["transaction"].([]any)
		if !ok || len(fragments) == 0 {
			continue
		}

		detail := foldFragments(fragments[0])
		record := fantasy.TransactionRecord{
			TransactionID:  getString(detail, "transaction_id"),
			TransactionKey: getString(detail, "transaction_key"),
			Type:           getString(detail, "type"),
			Status:         getString(detail, "status"),
			Timestamp:      getString(detail, "timestamp"),
			TraderTeamKey:  getString(detail, "trader_team_key"),
			TraderTeamName: getString(detail, "trader_team_name"),
			TradeeTeamKey:  getString(detail, "tradee_team_key"),
			TradeeTeamName: getString(detail, "tradee_team_name"),
			FAABBid:        getString(detail, "faab_bid"),
		}
		for _, sibling := range fragments[1:] {
			m, ok := sibling.(map[string]any)
			if !ok {
				continue
			}
			if players, ok := m["players"].(map[string]any); ok {
				record.Players = players
				break
			}
		}
		out = append(out, record)
	}
	return out
}
