package metrics

// MergeRecords combines records into a new one. Later records win on
// duplicate keys; nil records are skipped.
func MergeRecords(records ...Record) Record {
	size := 0
	for _, r := range records {
		size += len(r)
	}

	result := make(Record, size)
	for _, r := range records {
		for k, v := range r {
			result[k] = v
		}
	}
	return result
}
