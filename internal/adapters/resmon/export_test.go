// export_test.go exports private functions for white-box testing.
package resmon

// ScaleFactor exports the private degradation curve for testing.
var ScaleFactor = scaleFactor
