// Package estimate infers relative drop weights for the items of a loot
// category from observed dataset counts.
//
// Two estimators are provided:
//
//   - MLE: a smoothed maximum-likelihood point estimate. Deterministic,
//     cheap, and sufficient for ranking items.
//   - Bayesian: a Dirichlet-multinomial conjugate model producing a full
//     posterior sample per item plus summary statistics and data-adequacy
//     diagnostics. Because the Dirichlet prior is conjugate to the
//     multinomial likelihood, the posterior is available in closed form and
//     sampling is direct (no MCMC).
//
// Both estimators are pure functions over validated dataset.Records: same
// inputs, same outputs (the Bayesian estimator is deterministic given a seeded
// random source). Neither performs IO; caching sits above this package.
package estimate
