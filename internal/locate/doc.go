// Package locate finds on-screen controls by their text label.
//
// Region setup is the tedious part of configuring a drawing run: the color
// button, the picker and its close control have to be measured by hand. A
// screenshot run through Tesseract (via gosseract) gives word boxes, and
// Find turns a label such as "Colors" or "OK" into the screen rectangle to
// put in the configuration.
//
// # Prerequisites
//
// Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
package locate
