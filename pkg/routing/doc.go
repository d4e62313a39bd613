/*
Package routing implements the router: a pure, ordered decision tree that
turns a question, a runtime snapshot, and a policy result into exactly one
routing decision.

The tree is evaluated strictly in order and the first matching step wins:

 1. Policy override: an effective ForceLocal or ForceCloud action from the
    policy engine decides the route outright.
 2. Privacy enforcement: an explicit local preference always stays on
    device and never constructs a network request; an explicit cloud
    preference requires a network state that permits cloud.
 3. Auto mode: small questions the local model can serve route locally
    with fallback allowed; everything else goes to cloud when the network
    permits.

Only offline blocks cloud; degraded is a latency concern for the execution
layer, configurable via the runtime snapshot.

The router never executes anything and never retries. Fallback after a
failed local attempt is a capability flag on the decision; the confirm
gate and escalation live with the execution pipeline, not here.
*/
package routing
