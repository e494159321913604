/*
Package calibration builds the epoch-dependent context field models read.

Recalc drifts the n=1 geomagnetic coefficients to the requested epoch, locates the Sun
and derives the dipole tilt together with the GEO to GSW rotation. WithTilt skips the
ephemeris and uses a fixed tilt, which is what most tests and quick traces want.
*/
package calibration
