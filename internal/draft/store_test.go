// ABOUTME: Tests for the draft store merge, persistence, and reset semantics
// ABOUTME: Covers default completeness, idempotent patches, and the no-op short circuit

package draft

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Completeness(t *testing.T) {
	d := Default()

	// Every day of the week has both meal periods defined
	require.Len(t, d.Hours, len(DayNames))
	for _, day := range DayNames {
		hours, ok := d.Hours[day]
		require.True(t, ok, "missing day %q", day)
		assert.False(t, hours.Lunch.Open)
		assert.False(t, hours.Dinner.Open)
		assert.NotEmpty(t, hours.Lunch.Start)
		assert.NotEmpty(t, hours.Dinner.End)
	}

	// Every declared option key is present and false
	require.Len(t, d.Options, len(OptionKeys))
	for _, key := range OptionKeys {
		val, ok := d.Options[key]
		require.True(t, ok, "missing option %q", key)
		assert.False(t, val)
	}
	require.Len(t, d.FoodOptions, len(FoodOptionKeys))
	for _, key := range FoodOptionKeys {
		val, ok := d.FoodOptions[key]
		require.True(t, ok, "missing food option %q", key)
		assert.False(t, val)
	}

	// Every known integration is listed, disabled
	require.Len(t, d.Integrations, len(IntegrationNames))
	for i, name := range IntegrationNames {
		assert.Equal(t, name, d.Integrations[i].Name)
		assert.False(t, d.Integrations[i].Enabled)
	}

	assert.Empty(t, d.RecordID)
	assert.Equal(t, "draft", d.Status)
}

func TestStore_Read_FreshStoreReturnsDefault(t *testing.T) {
	store := NewStore(NewMemoryPersister(), "", nil)

	d := store.Read()
	assert.Equal(t, Default(), d)
}

func TestStore_Update_ReplacesTopLevelKey(t *testing.T) {
	store := NewStore(NewMemoryPersister(), "", nil)

	store.Update(Patch{
		Name:   String("Chez Mario"),
		Sector: String("restaurant"),
	})

	d := store.Read()
	assert.Equal(t, "Chez Mario", d.Name)
	assert.Equal(t, "restaurant", d.Sector)

	// Untouched keys keep their defaults
	assert.Len(t, d.Hours, len(DayNames))
}

func TestStore_Update_Idempotent(t *testing.T) {
	persister := NewMemoryPersister()
	store := NewStore(persister, "", nil)

	patch := Patch{
		Establishment: &Establishment{Name: "Chez Mario", City: "Lyon"},
		Options:       map[string]bool{"takeaway": true},
	}

	store.Update(patch)
	first := store.Read()
	writes := persister.SetCount()

	// Applying the same patch twice produces the same aggregate and no
	// second persistence write.
	store.Update(patch)
	second := store.Read()

	assert.Equal(t, first, second)
	assert.Equal(t, writes, persister.SetCount(), "identical patch must skip persistence")
}

func TestStore_Update_NoOpSkipsPersistence(t *testing.T) {
	persister := NewMemoryPersister()
	store := NewStore(persister, "", nil)
	writes := persister.SetCount()

	// An empty patch changes nothing
	store.Update(Patch{})
	assert.Equal(t, writes, persister.SetCount())

	// A patch writing the current value changes nothing either
	d := store.Read()
	store.Update(Patch{Status: String(d.Status)})
	assert.Equal(t, writes, persister.SetCount())
}

func TestStore_Update_PersistsJSON(t *testing.T) {
	persister := NewMemoryPersister()
	store := NewStore(persister, "", nil)

	store.Update(Patch{Name: String("Chez Mario")})

	raw, ok, err := persister.Get("agent-draft-new")
	require.NoError(t, err)
	require.True(t, ok)

	var restored Draft
	require.NoError(t, json.Unmarshal([]byte(raw), &restored))
	assert.Equal(t, "Chez Mario", restored.Name)
}

func TestStore_PersistFailureKeepsInMemoryState(t *testing.T) {
	persister := NewMemoryPersister()
	persister.FailSets = true
	store := NewStore(persister, "", nil)

	store.Update(Patch{Name: String("Chez Mario")})

	// In-memory aggregate stays authoritative despite the failed write
	assert.Equal(t, "Chez Mario", store.Read().Name)
	assert.Equal(t, 0, persister.SetCount())
}

func TestStore_RestoresPersistedDraft(t *testing.T) {
	persister := NewMemoryPersister()

	first := NewStore(persister, "agent-1", nil)
	first.Update(Patch{
		Name:  String("Chez Mario"),
		Notes: String("call before noon"),
	})

	// A new store over the same persister and record picks up the draft
	second := NewStore(persister, "agent-1", nil)
	d := second.Read()
	assert.Equal(t, "Chez Mario", d.Name)
	assert.Equal(t, "call before noon", d.Notes)
	assert.Equal(t, "agent-1", d.RecordID)
}

func TestStore_CorruptPersistedDraftFallsBackToDefault(t *testing.T) {
	persister := NewMemoryPersister()
	require.NoError(t, persister.Set("agent-draft-new", "{not json"))

	store := NewStore(persister, "", nil)
	assert.Equal(t, Default(), store.Read())
}

func TestStore_SetRecordID(t *testing.T) {
	persister := NewMemoryPersister()
	store := NewStore(persister, "", nil)

	store.Update(Patch{Name: String("Chez Mario")})
	store.SetRecordID("agent-42")

	assert.Equal(t, "agent-42", store.RecordID())
	assert.Equal(t, "Chez Mario", store.Read().Name, "only the identity field changes")

	// The slot moved from "new" to the record's own
	_, ok, err := persister.Get("agent-draft-new")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = persister.Get("agent-draft-agent-42")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_SetRecordID_SameIDIsNoOp(t *testing.T) {
	persister := NewMemoryPersister()
	store := NewStore(persister, "agent-1", nil)
	writes := persister.SetCount()

	store.SetRecordID("agent-1")
	assert.Equal(t, writes, persister.SetCount())
}

func TestStore_Reset(t *testing.T) {
	persister := NewMemoryPersister()
	store := NewStore(persister, "", nil)

	store.Update(Patch{Name: String("Chez Mario")})
	store.SetRecordID("agent-42")
	store.Reset()

	assert.Equal(t, Default(), store.Read())

	_, ok, err := persister.Get("agent-draft-agent-42")
	require.NoError(t, err)
	assert.False(t, ok, "reset clears the persisted slot")
}

func TestDraft_CloneIsDeep(t *testing.T) {
	d := Default()
	d.Closures = Closures{Enabled: true, Dates: []string{"2025-04-05"}}
	d.Documents = []string{"menu.pdf"}
	d.Integrations[0].Enabled = true
	d.Integrations[0].Fields = []IntegrationField{{Key: "api_key", Value: "k"}}

	cp := d.Clone()
	cp.Hours["monday"] = DayHours{Lunch: MealPeriod{Open: true}}
	cp.Options["takeaway"] = true
	cp.Closures.Dates[0] = "2030-01-01"
	cp.Documents[0] = "other.pdf"
	cp.Integrations[0].Fields[0].Value = "changed"

	assert.False(t, d.Hours["monday"].Lunch.Open)
	assert.False(t, d.Options["takeaway"])
	assert.Equal(t, "2025-04-05", d.Closures.Dates[0])
	assert.Equal(t, "menu.pdf", d.Documents[0])
	assert.Equal(t, "k", d.Integrations[0].Fields[0].Value)
}

func TestStore_ReadModifyWriteNestedMap(t *testing.T) {
	store := NewStore(NewMemoryPersister(), "", nil)

	// The documented pattern: read the table, modify one day, write the
	// whole key back.
	d := store.Read()
	hours := d.Hours
	hours["monday"] = DayHours{
		Lunch:  MealPeriod{Open: true, Start: "12:00", End: "14:00"},
		Dinner: hours["monday"].Dinner,
	}
	store.Update(Patch{Hours: hours})

	got := store.Read()
	assert.True(t, got.Hours["monday"].Lunch.Open)
	assert.False(t, got.Hours["tuesday"].Lunch.Open)
}
