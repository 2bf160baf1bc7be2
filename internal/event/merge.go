package event

// MergeStats counts how each record was handled by Merge
type MergeStats struct {
	Added      int `json:"added"`
	Updated    int `json:"updated"`
	Unchanged  int `json:"unchanged"`
	Migrated   int `json:"migrated"`
	Preserved  int `json:"preserved"`
	Duplicates int `json:"duplicates"`
}

// Change describes one field that differs between the stored and the merged record
type Change struct {
	EventID  string `json:"event_id"`
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// MergeResult is the outcome of Merge
type MergeResult struct {
	Events     []*Event
	Stats      MergeStats
	Changes    []*Change // per-field changes of updated records
	Duplicates []*Event  // parsed records dropped because their ID was already taken
}

// index holds the lookups Merge needs over the existing records
type index struct {
	byID     map[string]*Event
	byLegacy map[string][]*Event
}

func newIndex(existing []*Event) *index {
	idx := &index{
		byID:     make(map[string]*Event, len(existing)),
		byLegacy: make(map[string][]*Event),
	}
	for _, evt := range existing {
		idx.byID[evt.ID] = evt
		key := evt.LegacyKey()
		idx.byLegacy[key] = append(idx.byLegacy[key], evt)
	}
	return idx
}

// find locates the stored counterpart of evt: first by ID, then by legacy key.
// A legacy lookup with several candidates is resolved by exact time equality.
func (idx *index) find(evt *Event) (match *Event, migrated bool) {
	if existing, ok := idx.byID[evt.ID]; ok {
		return existing, false
	}
	candidates := idx.byLegacy[evt.LegacyKey()]
	switch len(candidates) {
	case 0:
		return nil, false
	case 1:
		return candidates[0], true
	}
	for _, c := range candidates {
		if sameString(c.Time, evt.Time) {
			return c, true
		}
	}
	return nil, false
}

// Merge reconciles freshly parsed records with the records of a previously
// persisted document.
//
// Matched records take the parsed fields and keep every enrichment field the
// stored record already had. Stored records that no parsed record matched are
// carried over unchanged; Merge never drops a stored record. The result is
// sorted with SortByDate. Neither input slice is modified.
func Merge(parsed []*Event, existing []*Event) *MergeResult {
	idx := newIndex(existing)
	result := &MergeResult{}

	merged := make(map[string]*Event, len(parsed)+len(existing))
	order := make([]string, 0, len(parsed)+len(existing))
	consumed := make(map[string]bool)

	for _, evt := range parsed {
		if _, taken := merged[evt.ID]; taken {
			result.Stats.Duplicates++
			result.Duplicates = append(result.Duplicates, evt)
			continue
		}

		match, migrated := idx.find(evt)
		if match == nil {
			merged[evt.ID] = evt.Clone()
			order = append(order, evt.ID)
			result.Stats.Added++
			continue
		}

		consumed[match.ID] = true
		if migrated {
			result.Stats.Migrated++
		}

		out := evt.Clone()
		out.Enrichment = Enrichment{}
		out.PreserveEnrichment(match)
		out.PreserveEnrichment(evt)

		changes := DetectChanges(match, out)
		if len(changes) > 0 {
			result.Stats.Updated++
			result.Changes = append(result.Changes, changes...)
		} else {
			result.Stats.Unchanged++
		}

		merged[out.ID] = out
		order = append(order, out.ID)
	}

	for _, evt := range existing {
		if consumed[evt.ID] {
			continue
		}
		if _, taken := merged[evt.ID]; taken {
			continue
		}
		merged[evt.ID] = evt.Clone()
		order = append(order, evt.ID)
		result.Stats.Preserved++
	}

	result.Events = make([]*Event, 0, len(order))
	for _, id := range order {
		result.Events = append(result.Events, merged[id])
	}
	SortByDate(result.Events)

	return result
}

// DetectChanges compares the identifying and descriptive fields of two
// versions of a record. Enrichment fields and qualification path are not
// compared.
func DetectChanges(previous, current *Event) []*Change {
	var changes []*Change
	add := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, &Change{
				EventID:  current.ID,
				Field:    field,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
	}

	add("id", previous.ID, current.ID)
	add("type", string(previous.Type), string(current.Type))
	add("date", previous.Date, current.Date)
	if !sameString(previous.Time, current.Time) {
		changes = append(changes, &Change{
			EventID:  current.ID,
			Field:    "time",
			OldValue: previous.TimeText(),
			NewValue: current.TimeText(),
		})
	}
	add("venue", previous.Venue, current.Venue)
	add("city", previous.City, current.City)
	add("state", previous.State, current.State)
	add("format", previous.Format, current.Format)
	add("notes", previous.Notes, current.Notes)

	return changes
}

// sameString treats two nil pointers as equal and compares values otherwise
func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
