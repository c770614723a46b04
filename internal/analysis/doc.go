// Package analysis groups fetched earthquake events and summarizes them.
//
// KMeans partitions events by epicenter (longitude, latitude) using Lloyd's
// algorithm with seeded k-means++ initialization, so a given seed always
// yields the same clusters. Statistics describes each cluster's depth and
// magnitude distributions and the time since its last event above
// magnitude 5. MonthlyCounts buckets events by calendar month in UTC.
package analysis
