package faultanalyzer

import "github.com/yusuke-matsunaga/druid-sub002/assign"

// Conditions holds one fault's sufficient and mandatory detection
// conditions, both over internal (node, time, value) signals rather than
// just primary inputs — spec §3's FaultInfo.sufficient/mandatory.
type Conditions struct {
	Sufficient assign.AssignList
	Mandatory  assign.AssignList
}

// IsTrivial reports whether Sufficient and Mandatory coincide (spec §4.8
// point 3): every condition needed to detect the fault is also necessary.
func (c Conditions) IsTrivial() bool {
	return assign.Compare(c.Sufficient, c.Mandatory) == assign.CmpEqual
}
