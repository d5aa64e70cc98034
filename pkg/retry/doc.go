// Package retry wraps failure-prone operations with bounded repetition.
//
// The scanner uses it around checkpoint and report writes, where a transient
// filesystem error should not cost hours of accumulated progress. Policies
// combine a BackoffStrategy with attempt caps and a retryability predicate
// driven by the error taxonomy in pkg/errors.
package retry
