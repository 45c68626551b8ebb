package medflow

import (
	"context"
	"fmt"

	"github.com/randalmurphal/medflow/notify"
	"github.com/randalmurphal/medflow/trials"
)

// FetchTrials looks up clinical-trial records for the query. The lookup
// is best-effort: any failure (missing searcher, network, timeout,
// malformed payload) degrades to an empty list plus a warning; this node
// never fails the request.
//
// Updates: state.Trials (empty slice on failure, never absent)
func FetchTrials(ctx context.Context, state AgentState) (AgentState, error) {
	notifier := notify.NotifierFromContext(ctx)
	notify.Info(ctx, notifier, NodeFetchTrials,
		"fetching clinical trials from ClinicalTrials.gov...")

	searcher := TrialsSearcherFromContext(ctx)
	if searcher == nil {
		state.Trials = []trials.Record{}
		return state, nil
	}

	records, err := searcher.Search(ctx, state.Query)
	if err != nil {
		notify.Warn(ctx, notifier, NodeFetchTrials,
			fmt.Sprintf("failed to fetch trials: %v", err))
		state.Trials = []trials.Record{}
		return state, nil
	}

	if limit := NodeConfigFromContext(ctx).TrialsLimit; limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	if records == nil {
		records = []trials.Record{}
	}
	state.Trials = records
	return state, nil
}
