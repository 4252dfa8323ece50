// Package schedule holds the blocking-window data model and the pure window
// calculus: whether a schedule is active at an instant and when its state
// changes next.
//
// Day ordinals are Monday=1 .. Sunday=7 everywhere in this package. Times of
// day are minute-resolution wall-clock values; a window whose end is earlier
// than its start wraps past midnight into the following calendar day.
package schedule
