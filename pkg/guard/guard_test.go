package guard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/formscribe/pkg/fields"
	"github.com/gardar/formscribe/pkg/normalize"
	"github.com/gardar/formscribe/pkg/record"
)

func newRecord(kv ...string) *record.Record {
	rec := record.New()
	for i := 0; i+1 < len(kv); i += 2 {
		rec.Set(fields.Key(kv[i]), kv[i+1])
	}
	return rec
}

func TestValidateNilRecord(t *testing.T) {
	v := Validate(nil, NewSeen())

	assert.False(t, v.Accept)
	require.ErrorIs(t, v.Err, ErrNoFormData)
	assert.Equal(t, "No form data available", v.Err.Error())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rec     *record.Record
		warning string
	}{
		{"no id", newRecord("CompanyName", "<R>Acme<R>"), WarnNoID},
		{"empty id", newRecord("FormNumber", "", "CompanyName", "<R>Acme<R>"), WarnNoID},
		{"form number id", newRecord("FormNumberId", "77", "CompanyName", "<R>Acme<R>"), ""},
		{"all empty", newRecord(
			"FormNumber", normalize.EmptyValue(fields.FormNumber),
			"CompanyName", normalize.EmptyValue(fields.CompanyName),
		), WarnAllEmpty},
		{"placeholder id", newRecord(
			"FormNumber", normalize.EmptyValue(fields.FormNumber),
			"CompanyName", "<R>Acme<R>",
		), WarnNoID},
		{"placeholder form number with form number id", newRecord(
			"FormNumber", normalize.EmptyValue(fields.FormNumber),
			"FormNumberId", "77",
		), ""},
		{"ok", newRecord("FormNumber", "<B>F1<B>", "CompanyName", "<R>Acme<R>"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.rec, NewSeen())
			assert.True(t, v.Accept)
			assert.NoError(t, v.Err)
			assert.Equal(t, tt.warning, v.Warning)
		})
	}
}

func TestValidateWarnsOnSecondSubmission(t *testing.T) {
	seen := NewSeen()
	rec := newRecord("FormNumber", "<B>F1<B>", "CompanyName", "<R>Acme<R>")

	first := Validate(rec, seen)
	second := Validate(rec, seen)

	assert.Equal(t, Verdict{Accept: true}, first)
	assert.Equal(t, Verdict{Accept: true, Warning: WarnDuplicate}, second)
	assert.True(t, seen.Has("<B>F1<B>"))
}

func TestValidateOnlyRemembersCleanForms(t *testing.T) {
	seen := NewSeen()
	empty := newRecord("FormNumber", normalize.EmptyValue(fields.FormNumber))

	assert.Equal(t, WarnAllEmpty, Validate(empty, seen).Warning)
	assert.Zero(t, seen.Len())
}

func TestFreshSeenPerPipeline(t *testing.T) {
	rec := newRecord("FormNumber", "<B>F1<B>", "CompanyName", "<R>Acme<R>")

	assert.Empty(t, Validate(rec, NewSeen()).Warning)
	assert.Empty(t, Validate(rec, NewSeen()).Warning)
	assert.Empty(t, Validate(rec, nil).Warning)
}

func TestSeenAddIsAtomic(t *testing.T) {
	seen := NewSeen()
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fresh int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if seen.Add("F1") {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fresh)
	assert.Equal(t, 1, seen.Len())
}

func TestFormID(t *testing.T) {
	placeholder := normalize.EmptyValue(fields.FormNumber)

	assert.Equal(t, "<B>F1<B>", FormID(newRecord("FormNumber", "<B>F1<B>", "FormNumberId", "77")))
	assert.Equal(t, "77", FormID(newRecord("FormNumber", placeholder, "FormNumberId", "77")))
	assert.Equal(t, "", FormID(newRecord("FormNumber", placeholder, "FormNumberId", normalize.EmptyValue(fields.FormNumberId))))
	assert.Equal(t, "", FormID(record.New()))
}

func TestValidateFormsWithoutNumberAreNotDuplicates(t *testing.T) {
	seen := NewSeen()
	placeholder := normalize.EmptyValue(fields.FormNumber)

	first := Validate(newRecord("FormNumber", placeholder, "CompanyName", "<R>Acme<R>"), seen)
	second := Validate(newRecord("FormNumber", placeholder, "CompanyName", "<R>Globex<R>"), seen)

	assert.Equal(t, WarnNoID, first.Warning)
	assert.Equal(t, WarnNoID, second.Warning)
	assert.Zero(t, seen.Len())
}

func TestValidateRemembersFormNumberIdFallback(t *testing.T) {
	seen := NewSeen()
	rec := newRecord("FormNumber", normalize.EmptyValue(fields.FormNumber), "FormNumberId", "77")

	assert.Empty(t, Validate(rec, seen).Warning)
	assert.Equal(t, WarnDuplicate, Validate(rec, seen).Warning)
	assert.True(t, seen.Has("77"))
}
