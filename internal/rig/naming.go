package rig

// Names below are an external contract: tools locate rig parts by them.
const (
	RootName     = "Vehicle_Rig"
	ControlsName = "Controls"
	BinderName   = "MotorDrive"
)

func AxleNodeName(axle AxleRole) string { return "Axle_" + string(axle) }
func AnchorName(key string) string      { return "top-" + key }
func SuspensionName(key string) string  { return "connectSusp-" + key }
func HingeName(key string) string       { return "connectHinge-" + key }
