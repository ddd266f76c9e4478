package app

import "go.trai.ch/modsync/internal/core/domain"

// MergeForTest exports merge for testing purposes.
func MergeForTest(file *domain.RunConfiguration, over domain.RunConfiguration) domain.RunConfiguration {
	return merge(file, over)
}
