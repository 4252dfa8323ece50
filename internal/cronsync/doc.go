// Package cronsync reconciles the planner's actuation entries against an
// external crontab.
//
// Lines installed by this tool carry an ownership marker comment; a sync pass
// strips every marked line, keeps everything else byte-untouched, and appends
// freshly rendered lines. Running it twice with no schedule changes yields an
// identical table.
package cronsync
