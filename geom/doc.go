/*
Package geom provides the geometry the compositor works with.

Layout coordinates are layout units of 1/64 pixel, represented as 26.6 fixed
point numbers from golang.org/x/image/math/fixed. Rectangles are half-open,
i.e. a rectangle contains its Min point but not its Max point.

Transforms are 2D affine matrices (golang.org/x/image/math/f64.Aff3) with an
additional marker for 3D operations. The compositor never needs the full 3D
matrix: it needs to know whether a transform has 3D components and it needs
the flattened 2D projection for overlap testing.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package geom
