// Package dataprocessing loads the RVOL study workbook.
//
// The Loader reads the first sheet (or a named one) with excelize, finds the
// date, ratio and price columns by exact header name and returns a
// domain.Table sorted ascending by date.
//
// # Cell handling
//
//   - Dates may be Excel serial numbers or text in one of the accepted
//     layouts; both are truncated to midnight UTC.
//   - Empty numeric cells become NaN and are treated as missing downstream.
//   - Any other unparseable cell fails the load with errors.ErrParse.
//   - A header that is not present fails with errors.ErrMissingColumn.
//   - Repeated dates fail with errors.ErrDuplicateDate.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(dataprocessing.DefaultLoadOptions(), logger)
//	table, err := loader.Load(ctx, "rvol.study.xlsx")
//	if err != nil {
//	    return err
//	}
package dataprocessing
