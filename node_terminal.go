package medflow

import (
	"context"

	"github.com/randalmurphal/medflow/notify"
)

// OffDomain is the terminal short circuit for non-medical queries.
//
// Updates: state.Explanation (fixed message)
func OffDomain(ctx context.Context, state AgentState) (AgentState, error) {
	notify.Info(ctx, notify.NotifierFromContext(ctx), NodeOffDomain,
		"query is off-domain")

	state.Explanation = MsgOffDomain
	return state, nil
}

// NoAnswer is the terminal short circuit when retrieval exhausts its
// refinement budget without finding documents.
//
// Updates: state.Explanation (fixed message)
func NoAnswer(ctx context.Context, state AgentState) (AgentState, error) {
	notify.Info(ctx, notify.NotifierFromContext(ctx), NodeNoAnswer,
		"no answer found for the query")

	state.Explanation = MsgNoAnswer
	return state, nil
}
