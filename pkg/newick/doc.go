/*
Package newick reads phylogenetic trees written in the Newick format into
the tree model of package tree.

An informal description of the format can be found here:
http://evolution.genetics.washington.edu/phylip/newicktree.html.

A tree is a subtree followed by ';'. A subtree is either a leaf, written as
an optional label and an optional ':'-prefixed branch length, or a
parenthesized, comma-separated list of subtrees followed by the same
optional label and length:

	(A:0.1,B:0.2,(C:0.3,D:0.4)E:0.5)F;

The characters '(', ')', ',' and ';' are structural and may not appear in
labels. Whitespace around tokens is ignored. Branch lengths must be plain
floating point literals; a node without one gets
[tree.DefaultBranchLength]. Comments, quoted labels and NHX annotations are
not supported.

[Parse] reads exactly one tree. [Reader] reads a stream holding any number
of ';'-terminated trees. Every failure is a [*ParseError] wrapped in a
PARSE_ERROR coded error, and unwraps to one of the sentinel errors below.
*/
package newick
