package ids

import "github.com/segmentio/ksuid"

// New returns a k-sortable identifier used as the primary key of every entity.
func New() string {
	return ksuid.New().String()
}

func Valid(id string) bool {
	_, err := ksuid.Parse(id)
	return err == nil
}
