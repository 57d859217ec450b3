package ttsctl

// Indirection layer to allow stubbing in tests

var (
	fnHealth    = runHealth
	fnState     = runState
	fnReload    = runReload
	fnSpeak     = runSpeak
	fnSynth     = runSynth
	fnWaitReady = runWaitReady
)
