// Package analysis turns recorded chain runs into numbers and pictures.
//
//   - [PowerSpectrum], [DominantFrequency]: spectrum of a sampled series
//     such as the mean chain height
//   - [LyapunovExponent]: largest exponent via trajectory separation
//   - [Trajectory], [TrajectoryToASCII]: path of one particle
//
// # Oscillation Frequency
//
// A free two-particle spring oscillates at sqrt(2k/m)/(2π) Hz:
//
//	heights := result.Heights()
//	f := analysis.DominantFrequency(heights, dt*float64(recordEvery))
package analysis
