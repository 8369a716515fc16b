// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/examguard/proctoring

/*
Package streaming is the optional asynchronous rules path named in
section 4.5: a JetStream publisher the admission pipeline calls after an
event is durably written, and a consumer that runs the same rules.Engine
evaluation out of process. A deployment may run the inline RulesHook, the
stream consumer, or both -- both paths share one Engine instance so
windowing, cooldown, and dedupe state stay consistent regardless of which
admitted the event.

Build with -tags=nats to link the real Watermill/NATS JetStream publisher
and consumer. Without that tag, NewPublisher and NewConsumer return
ErrStreamingNotEnabled, so cmd/server exits at startup when streaming is
enabled; with streaming disabled it builds neither and runs end to end
on the inline rules path alone.
*/
package streaming
