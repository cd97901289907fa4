// Package opensearch connects the platform to its OpenSearch cluster.
//
// The cluster is the long-retention sink for access log entries: the
// accesslog package bulk-ships entries into monthly indices through the
// client built here, and compliance tooling queries them back. New
// verifies the cluster answers an Info call before handing the client
// out, so a bad endpoint fails at startup rather than on the first
// flush.
package opensearch
