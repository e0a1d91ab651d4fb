// Package pagination derives page counts and loads one listing page.
//
// Raydium reports the total number of pools in every listing envelope. The
// loader asks for it with a one-record request, then fetches the requested
// page:
//
//	loader := pagination.NewLoader(raydiumClient, pagination.DefaultConfig())
//	page := loader.Load(ctx, pools.PageRequest{PoolType: pools.PoolTypeAll, Page: 1})
//
// The loader never fails. A failed count yields one total page, a failed page
// fetch yields no records.
package pagination
