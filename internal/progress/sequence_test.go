package progress

import (
	"testing"

	"workplace_training_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentsOrdersVideoBeforePdfOnTie(t *testing.T) {
	course := &model.Course{
		Videos: []model.Video{video(2, 2), video(1, 1)},
		Pdfs:   []model.Pdf{pdf(3, 2)},
	}

	items := Contents(course)

	require.Len(t, items, 3)
	assert.Equal(t, Item{Kind: KindVideo, ID: 1, Title: "video", Order: 1}, items[0])
	assert.Equal(t, KindVideo, items[1].Kind)
	assert.Equal(t, uint(2), items[1].ID)
	assert.Equal(t, KindPdf, items[2].Kind)
}

func TestNextResolvesFirstUnfinished(t *testing.T) {
	course := &model.Course{
		Videos: []model.Video{video(1, 1), video(2, 2)},
		Pdfs:   []model.Pdf{pdf(3, 2)},
	}

	next := Next(course, state([]uint{1}, nil, nil))
	assert.Equal(t, KindVideo, next.Kind)
	assert.Equal(t, uint(2), next.ID)

	next = Next(course, state([]uint{1, 2}, nil, nil))
	assert.Equal(t, KindPdf, next.Kind)

	next = Next(course, state([]uint{1, 2}, []uint{3}, nil))
	assert.Equal(t, KindDashboard, next.Kind)
}

func TestNextSkipsOutOfOrderCompletions(t *testing.T) {
	course := &model.Course{Videos: []model.Video{video(1, 1), video(2, 2)}}

	next := Next(course, state([]uint{2}, nil, nil))

	assert.Equal(t, uint(1), next.ID)
}

func TestNextGoesToTestUntilPassed(t *testing.T) {
	course := withTest(&model.Course{PassingScore: 70, Videos: []model.Video{video(1, 1)}})
	course.ID = 9

	next := Next(course, state([]uint{1}, nil, intPtr(40)))
	assert.Equal(t, KindTest, next.Kind)
	assert.Equal(t, uint(9), next.ID)

	next = Next(course, state([]uint{1}, nil, intPtr(70)))
	assert.Equal(t, KindDashboard, next.Kind)
}

func TestNextWithoutTestMaterialFallsBackToDashboard(t *testing.T) {
	course := &model.Course{TestRequired: true, Videos: []model.Video{video(1, 1)}}

	next := Next(course, state([]uint{1}, nil, nil))

	assert.Equal(t, KindDashboard, next.Kind)
	assert.False(t, Compute(course, state([]uint{1}, nil, nil)).IsCompleted)
}

func TestNavigate(t *testing.T) {
	course := withTest(&model.Course{
		Videos: []model.Video{video(1, 1)},
		Pdfs:   []model.Pdf{pdf(2, 2)},
	})
	course.ID = 5

	nav, ok := Navigate(course, KindPdf, 2)
	require.True(t, ok)
	assert.Equal(t, 2, nav.Position)
	assert.Equal(t, 3, nav.Total)
	require.NotNil(t, nav.Previous)
	assert.Equal(t, KindVideo, nav.Previous.Kind)
	require.NotNil(t, nav.Next)
	assert.Equal(t, KindTest, nav.Next.Kind)

	nav, ok = Navigate(course, KindVideo, 1)
	require.True(t, ok)
	assert.Nil(t, nav.Previous)

	_, ok = Navigate(course, KindVideo, 42)
	assert.False(t, ok)
}
