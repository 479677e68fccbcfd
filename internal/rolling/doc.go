// Package rolling computes the trailing-window z-score of the study ratio.
//
// Two window definitions are available:
//
//   - CountWindow: the last Size rows. A score is produced only when every
//     value in the window is present; the standard deviation uses DDOF
//     (0 by default, the population deviation).
//   - TimeWindow: the rows dated within (t - Days, t]. Missing values are
//     skipped and at least MinPeriods samples are required; the standard
//     deviation uses DDOF (1 by default, the sample deviation).
//
// An under-filled window yields domain.NullScore. A window with zero
// variance yields a Valid score whose value is NaN.
package rolling
