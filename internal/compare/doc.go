// Package compare diffs two scene graphs.
//
// Comparison runs in two stages:
//
//  1. MatchNodes pairs before nodes with after nodes using a weighted
//     similarity of label identity and normalized position distance.
//  2. Classify turns the matches into a ChangeReport: appeared, disappeared,
//     matched and moved objects plus relationship changes between matched
//     pairs.
//
// Compare runs both stages with validated options. Everything in this package
// is a pure function of its inputs.
package compare
