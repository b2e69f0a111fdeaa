/*
Package corpus handles everything that happens to source text before it
reaches the chain package: loading it from disk, scrubbing non-printable
bytes to spaces, and optionally caching named, pre-cleaned corpora in a
SQLite database alongside a log of what was generated from them.

The model built from a corpus is never persisted; only the cleaned input
text and the generation log are.
*/
package corpus
