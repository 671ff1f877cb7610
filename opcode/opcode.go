// Package opcode defines the packet-kind tag and the four disjoint 8-bit
// opcode enumerations fixed by the wire format: controller-to-host requests,
// controller-to-host notifications, host-to-controller requests, and
// host-to-controller notifications.
package opcode

// Kind is the packet-kind tag in byte 9 of the header.
type Kind uint8

const (
	KindRequest      Kind = 0
	KindResponse     Kind = 1
	KindNotification Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "Request"
	case KindResponse:
		return "Response"
	case KindNotification:
		return "Notification"
	default:
		return "Unknown"
	}
}

// Controller requests the controller process sends to the host.
const (
	CtlPing                             uint8 = 0
	CtlPrint                            uint8 = 1
	CtlEcho                             uint8 = 2
	CtlWindowCreate                     uint8 = 3
	CtlWindowSetDevelopmentToolsEnabled uint8 = 5
	CtlWindowLoadUrl                    uint8 = 6
	CtlWindowGetPosition                uint8 = 14
	CtlWindowSetPosition                uint8 = 15
	CtlWindowMaximize                   uint8 = 17
	CtlWindowMinimize                   uint8 = 18
	CtlWindowRestore                    uint8 = 19
	CtlWindowShow                       uint8 = 20
	CtlWindowHide                       uint8 = 21
	CtlWindowClose                      uint8 = 22
	CtlWindowRequestFocus               uint8 = 25
	CtlWindowActivate                   uint8 = 28
	CtlWindowBringToTop                 uint8 = 29
	CtlWindowSetAlwaysOnTop             uint8 = 30
	CtlWindowSetFullscreen              uint8 = 31
	CtlWindowCenterSelf                 uint8 = 32
	CtlWindowSetProxyRequests           uint8 = 33
	CtlWindowSetModifyRequests          uint8 = 34
	CtlStreamOpen                       uint8 = 35
	CtlStreamClose                      uint8 = 36
	CtlStreamData                       uint8 = 37
	CtlPickFile                         uint8 = 38
	CtlPickDirectory                    uint8 = 39
	CtlSaveFile                         uint8 = 40
	CtlWindowExecuteDevToolsMethod      uint8 = 41
	CtlWindowSetDevelopmentToolsVisible uint8 = 42
	CtlWindowSetTitle                   uint8 = 43
	CtlWindowSetIcon                    uint8 = 44
	CtlWindowAddUrlToProxy              uint8 = 45
	CtlWindowRemoveUrlToProxy           uint8 = 46
	CtlWindowAddUrlToModify             uint8 = 47
	CtlWindowRemoveUrlToModify          uint8 = 48
	CtlWindowGetSize                    uint8 = 49
	CtlWindowSetSize                    uint8 = 50
	CtlWindowAddDevToolsEventMethod     uint8 = 51
	CtlWindowRemoveDevToolsEventMethod  uint8 = 52
)

// Controller-to-host notifications.
const (
	CtlNotifyExit uint8 = 0
)

// Host requests the host process sends to the controller.
const (
	HostPing                uint8 = 0
	HostPrint               uint8 = 1
	HostEcho                uint8 = 2
	HostWindowProxyRequest  uint8 = 3
	HostWindowModifyRequest uint8 = 4
	HostStreamClose         uint8 = 5
)

// Host-to-controller notifications.
const (
	HostNotifyReady                    uint8 = 0
	HostNotifyExit                     uint8 = 1
	HostNotifyWindowOpened              uint8 = 2
	HostNotifyWindowClosed              uint8 = 3
	HostNotifyWindowFocused             uint8 = 5
	HostNotifyWindowUnfocused           uint8 = 6
	HostNotifyWindowFullscreenChanged   uint8 = 12
	HostNotifyWindowLoadStart           uint8 = 13
	HostNotifyWindowLoadEnd             uint8 = 14
	HostNotifyWindowLoadError           uint8 = 15
	HostNotifyWindowDevToolsEvent       uint8 = 16
)

// OrderingClass determines which worker executes a request opcode's handler.
type OrderingClass uint8

const (
	// Parallel requests fan out across the WorkerPool; no ordering guarantee.
	Parallel OrderingClass = iota
	// StreamOrdered requests execute strictly in arrival order on a single
	// worker, so that StreamOpen/StreamData.../StreamClose for one id never interleave.
	StreamOrdered
)

// StreamOpcodes lists the controller-to-host opcodes that must run StreamOrdered.
var StreamOpcodes = map[uint8]bool{
	CtlStreamOpen:  true,
	CtlStreamData:  true,
	CtlStreamClose: true,
}
