//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

int appIsActive() {
    return [NSApp isActive] ? 1 : 0;
}

void activateApp() {
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

import "log"

// RaiseForAlert brings the application in front of other apps so a fired
// reminder is not hidden behind them
func RaiseForAlert() {
	if C.appIsActive() == 1 {
		return
	}
	log.Println("[ALERT] App not active - bringing to front")
	C.activateApp()
}
