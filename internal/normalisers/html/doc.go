// Package html extracts the title and readable text of fetched web pages.
// Scripts, styles and other non-visible elements are dropped.
package html
