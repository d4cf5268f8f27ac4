package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderFiltersBySubject(t *testing.T) {
	var r Recorder
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx, SubjectMasteryUpdated, MasteryUpdated{UserID: "u"}))
	require.NoError(t, r.Publish(ctx, SubjectAssessmentCompleted, AssessmentCompleted{AssessmentID: "a"}))
	require.NoError(t, r.Publish(ctx, SubjectMasteryUpdated, MasteryUpdated{UserID: "v"}))

	assert.Len(t, r.Messages(""), 3)
	got := r.Messages(SubjectMasteryUpdated)
	require.Len(t, got, 2)
	assert.Equal(t, "v", got[1].Payload.(MasteryUpdated).UserID)
}

func TestNATSPublisherSubject(t *testing.T) {
	p := &NATSPublisher{prefix: "edu"}
	assert.Equal(t, "edu.mastery.updated", p.subject(SubjectMasteryUpdated))
	p.prefix = ""
	assert.Equal(t, "mastery.updated", p.subject(SubjectMasteryUpdated))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), "x", 1))
	assert.NoError(t, p.Close())
}
