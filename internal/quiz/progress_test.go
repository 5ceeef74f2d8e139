package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/secandoalei/secando/internal/store"
)

func TestProgressKey(t *testing.T) {
	tests := []struct {
		days []int
		want string
	}{
		{[]int{1, 2, 5}, "simulado_progress_1_2_5"},
		{[]int{7}, "simulado_progress_7"},
		{nil, "simulado_progress_"},
	}
	for _, tt := range tests {
		if got := ProgressKey(tt.days); got != tt.want {
			t.Errorf("ProgressKey(%v) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestProgressStore_RoundTrip(t *testing.T) {
	st, err := store.Open("file:quiz_progress?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	require.NoError(t, st.UserRepo().Create(ctx, store.UserRecord{Email: "ana@exemplo.com", PasswordHash: "x"}))

	ps := NewProgressStore(st.ProgressRepo())
	key := ProgressKey([]int{1, 3})

	got, err := ps.Load(ctx, "ana@exemplo.com", key)
	require.NoError(t, err)
	require.Nil(t, got)

	e := NewExam(sampleQuestions(4))
	e.Answer(0)
	e.Jump(3)
	e.Answer(2)
	e.Tick(42 * time.Second)

	want := Snapshot("ana@exemplo.com", key, e)
	require.NoError(t, ps.Save(ctx, want))

	got, err = ps.Load(ctx, "ana@exemplo.com", key)
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}

	restored := NewExam(got.Questions)
	restored.Restore(got)
	require.Equal(t, e.Score(), restored.Score())
	require.Equal(t, 3, restored.Current)

	require.NoError(t, ps.Clear(ctx, "ana@exemplo.com", key))
	got, err = ps.Load(ctx, "ana@exemplo.com", key)
	require.NoError(t, err)
	require.Nil(t, got)
}
