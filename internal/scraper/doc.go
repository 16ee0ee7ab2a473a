// Package scraper provides HTTP fetching and HTML extraction for handbook
// subject pages.
//
// The handbook site publishes one page per subject code. Pages are not
// nested: a section is an h3 heading followed by sibling content up to the
// next h3. The extractor anchors on those headings, on known table classes
// (SLOTable, assessmentTaskTable) and on inline em markers for metadata
// like credit points. Extraction is best effort and tuned to this one
// site's markup; a missing section yields an empty field, never an error.
package scraper
