// Package core provides the dataset logic behind DataLens.
//
// Everything here is independent of the transport layer: the HTTP handlers
// and the CLI call the same functions with the uploaded bytes.
//
// # Flow
//
// Every operation starts by turning the uploaded bytes into a [Table]:
//
//  1. [WrapForParsing] strips a UTF-8 BOM and replaces invalid UTF-8 bytes
//  2. [ParseTable] decodes comma-delimited text with a header row and infers
//     a type per column (int, float, bool or string)
//  3. The table is handed to [BuildPreview], [Analyze] or the report package
//
// A Table lives for one request only. Nothing in this package keeps state
// between calls, so concurrent requests never share data.
//
// # Statistics
//
// [Analyze] supports three options:
//
//   - correlation: Pearson correlation between numeric columns
//   - variance: sample variance of numeric columns
//   - missing: percentage of missing cells in every column
//
// Values are rounded to [ResultPrecision] decimals. Results that are not
// defined (variance of a single value, correlation with a constant column)
// are reported as [Number] NaN, which serializes as null.
//
// An unknown option is not an error: Analyze returns a result carrying
// {"error": "Invalid option"}, and callers return it with a success status.
//
// # Error Handling
//
// Failures are sentinel errors ([ErrParse], [ErrEmptyFile], ...) wrapped
// with context. [MapError] turns them into coded user messages:
//
//   - FILE001-FILE006: upload and parsing errors
//   - RPT001: report rendering errors
//   - REQ001-REQ004: request errors (missing parameters, timeouts, rate
//     limiting, too many concurrent parses)
package core
