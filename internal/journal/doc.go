// Package journal records the mutations of a run as newline-delimited JSON so
// a later undo can replay them in reverse.
//
// A journal file lives at the processed root as
// ".<service>-journal-YYYYMMDD-HHMMSS.jsonl"; the leading dot keeps it out of
// later scans.
package journal
