// Package dirtree reports disk usage of a directory tree.
//
// An Aggregator sums the sizes of all regular files beneath a directory,
// walking it with fastwalk pinned to a single worker. A Collector visits the
// tree top-down up to a maximum level, asks the Aggregator for the size of
// every visited directory, prunes directories below the size threshold
// together with their subtrees, and flattens the result into level-indented
// rows for tabular display.
//
// Inaccessible files and directories never abort a scan: they contribute
// zero bytes and are reported through the logger.
package dirtree
