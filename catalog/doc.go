// Package catalog loads the configuration documents behind the request
// builder: environments and roles, the originator list, the SRV matrix and
// the request executor's OpenAPI document.
//
// A configuration directory holds four files:
//
//	app-config.json                        environments and roles
//	OriginatorNameList.csv                 originator per environment, role and DUIS version
//	srv-matrix-config.json                 SRVs with eligible roles and command variants
//	openapi-adaptor-request-executor.json  request body schemas per SRV
//
// [Load] reads them from any [io/fs.FS]; lookups return errors wrapping
// [ErrNotFound].
package catalog
