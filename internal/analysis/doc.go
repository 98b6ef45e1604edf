// Package analysis characterizes recorded rig channels.
//
//   - [PowerSpectrum]: magnitude spectrum of a series, zero padded
//   - [DominantFrequency]: strongest non-DC frequency, used for the ride
//     frequency of a suspension travel channel
//   - [Settle]: time after which a series stays inside a band
package analysis
