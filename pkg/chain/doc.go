/*
Package chain builds first-order Markov models over whitespace-delimited
word tokens and samples random sentence-shaped token chains from them.

A Model is constructed in a single left-to-right pass over a corpus: every
distinct spelling is interned to a dense integer id, and for every
consecutive token pair an id->id edge is appended to the predecessor's
successor list. Successor lists are deliberately not deduplicated, so
uniform selection from a list reproduces the empirical transition
distribution.

A Sampler performs bounded random walks over a trained Model and reports
why each walk stopped (terminal punctuation, dead end, or output budget),
which lets the rejection-sampling layer ask for sentences that end in a
specific punctuation mark.
*/
package chain
