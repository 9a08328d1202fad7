package scan

// Classify maps an item's timestamps, its comments-since list, and whether
// the item was previously seen to a change group.
//
// The rules are evaluated in fixed priority order, first match wins:
//
//  1. Any comment since the watermark -> GroupCommented. Comments represent
//     human attention, so they outrank every other signal, including the
//     item being brand new.
//  2. Previously seen -> GroupUnchanged.
//  3. Never edited since creation -> GroupNew.
//  4. Otherwise -> GroupUpdated.
func Classify(item Item, wasPreviouslySeen bool) Group {
	switch {
	case len(item.Comments) > 0:
		return GroupCommented
	case wasPreviouslySeen:
		return GroupUnchanged
	case item.CreatedAt.Equal(item.LastEditedAt):
		return GroupNew
	default:
		return GroupUpdated
	}
}
