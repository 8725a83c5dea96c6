package reports

import "sort"

// The multi-pass pipeline below implements the shared aggregation shape:
//  1. collapse rows by (dimension, tag, pieces_per_box), summing quantities
//  2. regroup by (dimension, tag), collecting box details per configuration
//  3. regroup by dimension, collecting tag sub-groups
//  4. flatten box details across tag groups by pieces_per_box
// Every view is this pipeline with a different dimension and tag selector.

// dimFunc extracts the dimension code from a row.
type dimFunc func(Row) string

// tagFunc extracts the sub-group label from a row.
type tagFunc func(Row) TagKey

// byItemCode groups on the item dimension.
func byItemCode(r Row) string { return r.ItemCode }

// byBinCode groups on the bin dimension.
func byBinCode(r Row) string { return r.BinCode }

// tagPOBT labels sub-groups by PO and BT (bin and item views).
func tagPOBT(r Row) TagKey { return TagKey{CustomerPO: r.CustomerPO, BatchTag: r.BatchTag} }

// tagBinPO labels sub-groups by bin and PO (BT view).
func tagBinPO(r Row) TagKey { return TagKey{BinCode: r.BinCode, CustomerPO: r.CustomerPO} }

// tagBinBT labels sub-groups by bin and BT (PO view).
func tagBinBT(r Row) TagKey { return TagKey{BinCode: r.BinCode, BatchTag: r.BatchTag} }

// configKey identifies a collapsed step-1 bucket.
type configKey struct {
	dim string
	tag TagKey
	ppb int
}

// aggregate runs the pipeline over rows and returns dimension summaries in
// ascending code order.
func aggregate(rows []Row, dim dimFunc, tag tagFunc) []DimensionSummary {
	// Step 1: collapse identical (dimension, tag, config) buckets.
	buckets := make(map[configKey]*BoxDetail)
	for _, r := range rows {
		key := configKey{dim: dim(r), tag: tag(r), ppb: r.PiecesPerBox}
		if b, ok := buckets[key]; ok {
			b.BoxCount += r.BoxCount
		} else {
			buckets[key] = &BoxDetail{BoxCount: r.BoxCount, PiecesPerBox: r.PiecesPerBox}
		}
	}

	// Steps 2 and 3: build tag groups, then dimension summaries.
	type dimTag struct {
		dim string
		tag TagKey
	}
	groups := make(map[dimTag]*TagGroup)
	dims := make(map[string]*DimensionSummary)
	for key, b := range buckets {
		dt := dimTag{dim: key.dim, tag: key.tag}
		g, ok := groups[dt]
		if !ok {
			g = &TagGroup{TagKey: key.tag}
			groups[dt] = g
		}
		g.BoxDetails = append(g.BoxDetails, *b)
		g.TotalBoxes += b.BoxCount
		g.TotalPieces += b.BoxCount * b.PiecesPerBox

		d, ok := dims[key.dim]
		if !ok {
			d = &DimensionSummary{Code: key.dim}
			dims[key.dim] = d
		}
		d.TotalBoxes += b.BoxCount
		d.TotalPieces += b.BoxCount * b.PiecesPerBox
	}
	for dt, g := range groups {
		sortBoxDetails(g.BoxDetails)
		dims[dt.dim].Groups = append(dims[dt.dim].Groups, *g)
	}

	// Step 4: flattened box details per dimension, merged across tags.
	out := make([]DimensionSummary, 0, len(dims))
	for _, d := range dims {
		sort.Slice(d.Groups, func(i, j int) bool { return tagLess(d.Groups[i].TagKey, d.Groups[j].TagKey) })
		d.BoxDetails = flattenBoxDetails(d.Groups)
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// tagLess orders tag groups ascending by bin, PO, BT. Empty (absent)
// values sort before present ones.
func tagLess(a, b TagKey) bool {
	if a.BinCode != b.BinCode {
		return a.BinCode < b.BinCode
	}
	if a.CustomerPO != b.CustomerPO {
		return a.CustomerPO < b.CustomerPO
	}
	return a.BatchTag < b.BatchTag
}

// sortBoxDetails orders configurations ascending by pieces per box.
func sortBoxDetails(details []BoxDetail) {
	sort.Slice(details, func(i, j int) bool { return details[i].PiecesPerBox < details[j].PiecesPerBox })
}

// flattenBoxDetails merges box details across tag groups by pieces per box.
func flattenBoxDetails(groups []TagGroup) []BoxDetail {
	merged := make(map[int]int)
	for _, g := range groups {
		for _, b := range g.BoxDetails {
			merged[b.PiecesPerBox] += b.BoxCount
		}
	}
	out := make([]BoxDetail, 0, len(merged))
	for ppb, boxes := range merged {
		out = append(out, BoxDetail{BoxCount: boxes, PiecesPerBox: ppb})
	}
	sortBoxDetails(out)
	return out
}

// totals sums pieces and boxes across dimension summaries.
func totals(dims []DimensionSummary) (pieces, boxes int) {
	for _, d := range dims {
		pieces += d.TotalPieces
		boxes += d.TotalBoxes
	}
	return pieces, boxes
}
